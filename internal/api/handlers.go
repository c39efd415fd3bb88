package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/theirongolddev/nestegg/internal/model"
	"github.com/theirongolddev/nestegg/internal/money"
	"github.com/theirongolddev/nestegg/internal/planner"
	"github.com/theirongolddev/nestegg/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type paramsJSON struct {
	RetirementYear  int             `json:"retirement_year"`
	MonthlyIncome   decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	RetirementRate  float64         `json:"retirement_rate"`
	MonthlySurplus  decimal.Decimal `json:"monthly_surplus"`
}

type paramsRequest struct {
	RetirementYear  *int     `json:"retirement_year"`
	MonthlyIncome   *float64 `json:"monthly_income"`
	MonthlyExpenses *float64 `json:"monthly_expenses"`
	RetirementRate  *float64 `json:"retirement_rate"`
}

type goalJSON struct {
	Name                string          `json:"name"`
	TargetAmount        decimal.Decimal `json:"target_amount"`
	TargetYear          int             `json:"target_year"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
	AnnualRate          float64         `json:"annual_rate"`
	SolvedFor           string          `json:"solved_for"`
}

type goalRequest struct {
	Name                string   `json:"name" binding:"required"`
	TargetAmount        float64  `json:"target_amount"`
	AnnualRate          float64  `json:"annual_rate"`
	TargetYear          *int     `json:"target_year"`
	MonthlyContribution *float64 `json:"monthly_contribution"`
}

type networthJSON struct {
	RetirementYear int             `json:"retirement_year"`
	NetWorth       decimal.Decimal `json:"net_worth"`
}

type yearJSON struct {
	Year         int             `json:"year"`
	Available    decimal.Decimal `json:"available"`
	Contribution decimal.Decimal `json:"contribution"`
	Balance      decimal.Decimal `json:"balance"`
	ActiveGoals  int             `json:"active_goals"`
}

type progressJSON struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	SavedAmount  decimal.Decimal `json:"saved_amount"`
	PercentSaved float64         `json:"percent_saved"`
	Funded       bool            `json:"funded"`
}

type snapshotJSON struct {
	Year              int             `json:"year"`
	MonthsElapsed     int             `json:"months_elapsed"`
	Goals             []progressJSON  `json:"goals"`
	RetirementSavings decimal.Decimal `json:"retirement_savings"`
}

type timelineJSON struct {
	Year   int    `json:"year"`
	Label  string `json:"label"`
	Detail string `json:"detail"`
	Kind   string `json:"kind"`
}

func toParamsJSON(p model.Params) paramsJSON {
	return paramsJSON{
		RetirementYear:  p.RetirementYear,
		MonthlyIncome:   money.Cents(p.MonthlyIncome),
		MonthlyExpenses: money.Cents(p.MonthlyExpenses),
		RetirementRate:  p.RetirementRate,
		MonthlySurplus:  money.Cents(p.MonthlySurplus()),
	}
}

func toGoalJSON(g model.Goal) goalJSON {
	return goalJSON{
		Name:                g.Name,
		TargetAmount:        money.Cents(g.TargetAmount),
		TargetYear:          g.TargetYear,
		MonthlyContribution: money.Cents(g.MonthlyContribution),
		AnnualRate:          g.AnnualRate,
		SolvedFor:           string(g.SolvedFor),
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrGoalNotFound):
		return http.StatusNotFound
	case errors.Is(err, planner.ErrUnreachableGoal):
		return http.StatusUnprocessableEntity
	case errors.Is(err, planner.ErrInvalidInput), errors.Is(err, planner.ErrInvalidTimeframe):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) gin.H {
	body := gin.H{"error": err.Error()}
	if kind := planner.Kind(err); kind != nil {
		body["kind"] = kind.Error()
	}
	var pe *planner.Error
	if errors.As(err, &pe) && pe.Field != "" {
		body["field"] = pe.Field
	}
	return body
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), errorBody(err))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok\n")
}

func (s *Server) handleGetParams(c *gin.Context) {
	c.JSON(http.StatusOK, toParamsJSON(s.sess.Params()))
}

// handlePutParams applies a partial update; omitted fields keep their values.
func (s *Server) handlePutParams(c *gin.Context) {
	var req paramsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := s.sess.UpdateParams(func(p *model.Params) {
		if req.RetirementYear != nil {
			p.RetirementYear = *req.RetirementYear
		}
		if req.MonthlyIncome != nil {
			p.MonthlyIncome = *req.MonthlyIncome
		}
		if req.MonthlyExpenses != nil {
			p.MonthlyExpenses = *req.MonthlyExpenses
		}
		if req.RetirementRate != nil {
			p.RetirementRate = *req.RetirementRate
		}
	})
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.persist(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.emit(EventParamsUpdated, "")
	c.JSON(http.StatusOK, toParamsJSON(p))
}

func (s *Server) handleListGoals(c *gin.Context) {
	goals := s.sess.Goals()
	out := make([]goalJSON, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalJSON(g))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleAddGoal(c *gin.Context) {
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := s.sess.AddGoal(planner.GoalRequest{
		Name:                req.Name,
		TargetAmount:        req.TargetAmount,
		AnnualRate:          req.AnnualRate,
		TargetYear:          req.TargetYear,
		MonthlyContribution: req.MonthlyContribution,
	})
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.persist(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.emit(EventGoalAdded, goal.Name)
	c.JSON(http.StatusCreated, toGoalJSON(goal))
}

func (s *Server) handleRemoveGoal(c *gin.Context) {
	name := c.Param("name")
	if err := s.sess.RemoveGoal(name); err != nil {
		fail(c, err)
		return
	}
	if err := s.persist(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.emit(EventGoalRemoved, name)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleNetWorth(c *gin.Context) {
	c.JSON(http.StatusOK, networthJSON{
		RetirementYear: s.sess.Params().RetirementYear,
		NetWorth:       money.Cents(s.sess.NetWorth()),
	})
}

func (s *Server) handleSchedule(c *gin.Context) {
	rows := s.sess.Schedule()
	out := make([]yearJSON, 0, len(rows))
	for _, r := range rows {
		out = append(out, yearJSON{
			Year:         r.Year,
			Available:    money.Cents(r.Available),
			Contribution: money.Cents(r.Contribution),
			Balance:      money.Cents(r.Balance),
			ActiveGoals:  r.ActiveGoals,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleSnapshot(c *gin.Context) {
	year := s.sess.CurrentYear()
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year must be an integer"})
			return
		}
		year = y
	}

	snap, err := s.sess.Snapshot(year)
	if err != nil {
		fail(c, err)
		return
	}

	out := snapshotJSON{
		Year:              snap.Year,
		MonthsElapsed:     snap.MonthsElapsed,
		Goals:             make([]progressJSON, 0, len(snap.Goals)),
		RetirementSavings: money.Cents(snap.RetirementSavings),
	}
	for _, gp := range snap.Goals {
		out.Goals = append(out.Goals, progressJSON{
			Name:         gp.Name,
			TargetAmount: money.Cents(gp.TargetAmount),
			SavedAmount:  money.Cents(gp.SavedAmount),
			PercentSaved: gp.PercentSaved,
			Funded:       gp.Funded,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleTimeline(c *gin.Context) {
	points := s.sess.Timeline()
	out := make([]timelineJSON, 0, len(points))
	for _, p := range points {
		out = append(out, timelineJSON{
			Year:   p.Year,
			Label:  p.Label,
			Detail: p.Detail,
			Kind:   p.Kind.String(),
		})
	}
	c.JSON(http.StatusOK, out)
}
