package handlers

import (
	"errors"
	"time"

	"leaderboard-service/services"

	"github.com/gofiber/fiber/v2"
)

// CompetitionHandler translates HTTP requests into service calls and service
// results into the JSON envelopes the API has always returned.
type CompetitionHandler struct {
	Competitions *services.CompetitionService
	Scores       *services.ScoreService
	Leaderboards *services.LeaderboardService
	Ranks        *services.RankService
	Finalizer    *services.FinalizeService
}

func SetupCompetitionRoutes(app *fiber.App, h *CompetitionHandler) {
	api := app.Group("/api/competitions")

	api.Get("/", h.ListCompetitions)
	api.Post("/", h.CreateCompetition)
	api.Post("/bulk", h.BulkImport)

	// Registered before the :unique_id routes so "players" is not captured
	// as a competition id.
	api.Get("/players/:player_name/history", h.PlayerCareerHistory)

	api.Get("/:unique_id/leaderboard", h.GetLeaderboard)
	api.Get("/:unique_id/snapshots", h.GetSnapshots)
	api.Post("/:unique_id/scores", h.SubmitScore)
	api.Get("/:unique_id/players/:player_name/scores", h.PlayerScoreHistory)
	api.Get("/:unique_id/players/:player_name/rank", h.GetPlayerRank)
	api.Get("/:unique_id/neighbours/:player_name", h.GetPlayerNeighbours)
	api.Post("/:unique_id/finalize", h.FinalizeCompetition)
	api.Post("/:unique_id/reset", h.ResetCompetition)
}

// respondError maps a service error kind to an HTTP status. The body carries
// the service message only; wrapped internals stay in the logs.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch services.KindOf(err) {
	case services.KindValidation:
		status = fiber.StatusBadRequest
	case services.KindNotFound:
		status = fiber.StatusNotFound
	case services.KindConflict:
		status = fiber.StatusConflict
	}
	message := err.Error()
	var se *services.ServiceError
	if errors.As(err, &se) {
		message = se.Message
	}
	return c.Status(status).JSON(fiber.Map{"message": message})
}

type createCompetitionRequest struct {
	Name         string     `json:"name"`
	UniqueID     string     `json:"unique_id"`
	ScoreType    string     `json:"score_type"`
	SortingOrder string     `json:"sorting_order"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
}

func (h *CompetitionHandler) CreateCompetition(c *fiber.Ctx) error {
	var req createCompetitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	comp, err := h.Competitions.Create(services.CreateCompetitionInput{
		Name:         req.Name,
		UniqueID:     req.UniqueID,
		ScoreType:    req.ScoreType,
		SortingOrder: req.SortingOrder,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Competition created",
		"competition": fiber.Map{
			"id":            comp.ID,
			"name":          comp.Name,
			"unique_id":     comp.UniqueID,
			"score_type":    comp.ScoreType,
			"sorting_order": comp.SortingOrder,
			"status":        comp.Status,
		},
	})
}

func (h *CompetitionHandler) ListCompetitions(c *fiber.Ctx) error {
	comps, err := h.Competitions.List(c.Query("status", "all"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":        len(comps),
		"competitions": comps,
	})
}

type bulkImportRequest struct {
	Competitions []services.BulkCompetition `json:"competitions"`
}

func (h *CompetitionHandler) BulkImport(c *fiber.Ctx) error {
	var req bulkImportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Payload must include a 'competitions' array."})
	}

	result, err := h.Competitions.BulkImport(req.Competitions)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":              "Payload processed successfully",
		"competitions_created": result.CompetitionsCreated,
		"scores_added":         result.ScoresAdded,
	})
}

type submitScoreRequest struct {
	PlayerName string      `json:"player_name"`
	Score      interface{} `json:"score"`
	Timestamp  *time.Time  `json:"timestamp"`
}

func (h *CompetitionHandler) SubmitScore(c *fiber.Ctx) error {
	var req submitScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	result, err := h.Scores.Submit(c.Params("unique_id"), services.SubmitScoreInput{
		PlayerName: req.PlayerName,
		Score:      req.Score,
		Timestamp:  req.Timestamp,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Score recorded successfully.",
		"player_name": result.PlayerName,
		"score":       result.Score,
	})
}

func (h *CompetitionHandler) GetLeaderboard(c *fiber.Ctx) error {
	window, err := services.ParseTimeWindow(c.Query("start"), c.Query("end"))
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.Leaderboards.GetLeaderboard(c.Params("unique_id"), window, c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"competition": fiber.Map{
			"name":          result.Competition.Name,
			"unique_id":     result.Competition.UniqueID,
			"score_type":    result.Competition.ScoreType,
			"sorting_order": result.Competition.SortingOrder,
			"status":        result.Competition.Status,
		},
		"time_window": fiber.Map{
			"period": result.Window.Period(),
			"start":  nullableString(result.Window.StartRaw),
			"end":    nullableString(result.Window.EndRaw),
		},
		"leaderboard":   result.Entries,
		"total_results": result.TotalResults,
	})
}

func (h *CompetitionHandler) GetSnapshots(c *fiber.Ctx) error {
	result, err := h.Finalizer.GetSnapshots(c.Params("unique_id"))
	if err != nil {
		return respondError(c, err)
	}
	if len(result.Snapshots) == 0 {
		return c.JSON(fiber.Map{
			"message":         "No snapshots yet. Run finalize endpoint first.",
			"competition":     result.Competition.Name,
			"total_snapshots": 0,
			"snapshots":       []services.SnapshotView{},
		})
	}
	return c.JSON(fiber.Map{
		"competition":     result.Competition.Name,
		"total_snapshots": len(result.Snapshots),
		"snapshots":       result.Snapshots,
	})
}

func (h *CompetitionHandler) PlayerScoreHistory(c *fiber.Ctx) error {
	result, err := h.Scores.PlayerScoreHistory(c.Params("unique_id"), c.Params("player_name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (h *CompetitionHandler) GetPlayerRank(c *fiber.Ctx) error {
	result, err := h.Ranks.GetRank(c.Params("unique_id"), c.Params("player_name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (h *CompetitionHandler) GetPlayerNeighbours(c *fiber.Ctx) error {
	result, err := h.Ranks.GetNeighbours(c.Params("unique_id"), c.Params("player_name"), c.QueryInt("count", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (h *CompetitionHandler) FinalizeCompetition(c *fiber.Ctx) error {
	result, err := h.Finalizer.Finalize(c.Params("unique_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":           "Competition finalized and saved",
		"competition":       result.Competition.Name,
		"final_leaderboard": result.Leaderboard,
		"participants":      result.Participants,
	})
}

func (h *CompetitionHandler) ResetCompetition(c *fiber.Ctx) error {
	uniqueID := c.Params("unique_id")
	result, err := h.Finalizer.Reset(uniqueID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":         "Competition " + uniqueID + " successfully reset. Scores cleared.",
		"records_deleted": result,
		"new_status":      "active",
	})
}

func (h *CompetitionHandler) PlayerCareerHistory(c *fiber.Ctx) error {
	result, err := h.Finalizer.PlayerCareerHistory(c.Params("player_name"))
	if err != nil {
		return respondError(c, err)
	}
	history := make([]fiber.Map, len(result.History))
	for i, row := range result.History {
		history[i] = fiber.Map{
			"competition":    row.CompetitionName,
			"competition_id": row.UniqueID,
			"rank":           row.FinalRank,
			"score":          row.FinalScore,
			"completed_date": row.CompletedDate,
		}
	}
	return c.JSON(fiber.Map{
		"player_name":               result.PlayerName,
		"competitions_participated": result.CompetitionsParticipated,
		"history":                   history,
	})
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
