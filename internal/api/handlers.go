package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/shaho/insurance-calculator/internal/calculation"
	"github.com/shaho/insurance-calculator/internal/config"
	"github.com/shaho/insurance-calculator/internal/domain"
	"github.com/shaho/insurance-calculator/internal/ratetable"
	"github.com/shaho/insurance-calculator/pkg/dateutil"
	money "github.com/shaho/insurance-calculator/pkg/decimal"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	Engine *calculation.Engine
	// DefaultHeadcount applies when a request omits the employer headcount.
	DefaultHeadcount int
	Logger           calculation.Logger

	parser *config.InputParser
}

// NewHandler creates a handler over the engine. The handler logs through the
// engine's logger.
func NewHandler(engine *calculation.Engine, defaultHeadcount int) *Handler {
	logger := engine.Logger
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Handler{
		Engine:           engine,
		DefaultHeadcount: defaultHeadcount,
		Logger:           logger,
		parser:           config.NewInputParser(),
	}
}

// Health reports liveness and the loaded table set.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if named, ok := h.Engine.Tables.(interface{ Name() string }); ok {
		resp.Tables = named.Name()
	}
	writeJSON(w, http.StatusOK, resp)
}

// Eligibility evaluates one employee for one month.
func (h *Handler) Eligibility(w http.ResponseWriter, r *http.Request) {
	var req EligibilityRequest
	if !h.decode(w, r, &req) {
		return
	}
	month, err := targetMonth(req.TargetYear, req.TargetMonth)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	emp, err := h.employee(req.Employee)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := EligibilityResponse{
		EligibilityResult: h.Engine.Evaluate(&emp, month.Year, month.Month, h.headcount(req.Headcount)),
	}
	if d, ok := calculation.QualificationLossDate(&emp); ok {
		resp.QualificationLossDate = d.Format(time.DateOnly)
	}
	if d, ok := calculation.ContractExpiryDate(&emp); ok {
		resp.ContractExpiryDate = d.Format(time.DateOnly)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Premium calculates the monthly premium split for a grade.
func (h *Handler) Premium(w http.ResponseWriter, r *http.Request) {
	var in calculation.PremiumInput
	if !h.decode(w, r, &in) {
		return
	}
	in.Prefecture = ratetable.NormalizePrefecture(in.Prefecture)

	p, err := h.Engine.Calculate(in)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PremiumResponse{Calculated: p != nil, Premium: p})
}

// BonusPremium calculates the premium split for one bonus payment.
func (h *Handler) BonusPremium(w http.ResponseWriter, r *http.Request) {
	var req BonusRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Prefecture = ratetable.NormalizePrefecture(req.Prefecture)

	var (
		elig  *domain.EligibilityResult
		paid  dateutil.YearMonth
		err   error
		input = req.BonusInput
	)
	if req.Employee != nil && req.PaidMonth != "" {
		paid, err = dateutil.ParseYearMonth(req.PaidMonth)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("paid_month: %v", err))
			return
		}
		emp, err := h.employee(*req.Employee)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if input.Prefecture == "" {
			input.Prefecture = emp.Prefecture
		}
		if !paidIn(emp.BonusPaymentDates, paid) {
			emp.BonusPaymentDates = append(emp.BonusPaymentDates, paid.LastDay())
		}
		if input.Age == 0 && emp.HasBirthDate() {
			input.Age = dateutil.AgeAtMonth(*emp.BirthDate, paid)
		}
		if input.FiscalYear == 0 {
			input.FiscalYear = dateutil.FiscalYear(paid.FirstDay())
		}
		result := h.Engine.Evaluate(&emp, paid.Year, paid.Month, h.headcount(req.Headcount))
		elig = &result
	}

	b, err := h.Engine.CalculateBonus(input)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	if b == nil {
		writeJSON(w, http.StatusOK, BonusResponse{EmployeeTotal: decimal.Zero, EmployerTotal: decimal.Zero})
		return
	}
	if elig != nil {
		calculation.ApplyBonusExemption(b, *elig, paid)
	}
	writeJSON(w, http.StatusOK, BonusResponse{
		Calculated:    true,
		Bonus:         b,
		EmployeeTotal: b.EmployeeTotal(),
		EmployerTotal: b.EmployerTotal(),
	})
}

// Derive recomputes every dependent form field in one pass.
func (h *Handler) Derive(w http.ResponseWriter, r *http.Request) {
	var req DeriveRequest
	if !h.decode(w, r, &req) {
		return
	}
	month, err := targetMonth(req.TargetYear, req.TargetMonth)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	emp, err := h.employee(req.Employee)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := h.Engine.Derive(calculation.DeriveInput{
		Employee:            emp,
		TargetYear:          month.Year,
		TargetMonth:         month.Month,
		Headcount:           h.headcount(req.Headcount),
		StandardMonthlyWage: req.StandardMonthlyWage,
	})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ResolveGrade maps ?wage= to a grade pair.
func (h *Handler) ResolveGrade(w http.ResponseWriter, r *http.Request) {
	if h.Engine.Tables == nil {
		h.writeEngineError(w, domain.ErrMissingRateTables)
		return
	}
	wage, err := money.NewMoneyFromString(r.URL.Query().Get("wage"))
	if err != nil || wage.IsNegative() {
		writeError(w, http.StatusBadRequest, "wage must be a non-negative number")
		return
	}

	resp := GradeResponse{Wage: wage.Decimal, HealthGrade: h.Engine.ResolveGrade(wage.Decimal)}
	resp.PensionGrade, _ = calculation.PensionGradeFor(resp.HealthGrade)
	writeJSON(w, http.StatusOK, resp)
}

// CheckCombination validates ?health=&pension=.
func (h *Handler) CheckCombination(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	health, err := strconv.Atoi(q.Get("health"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "health must be an integer grade")
		return
	}
	pension, err := strconv.Atoi(q.Get("pension"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "pension must be an integer grade")
		return
	}

	expected, _ := calculation.PensionGradeFor(health)
	writeJSON(w, http.StatusOK, CombinationResponse{
		HealthGrade:  health,
		PensionGrade: pension,
		Valid:        h.Engine.CheckCombination(health, pension),
		Expected:     expected,
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// employee normalises and validates a submitted record. Missing IDs are
// allowed; a form may not have assigned one yet.
func (h *Handler) employee(emp domain.Employee) (domain.Employee, error) {
	config.NormalizeEmployee(&emp, "")
	if err := h.parser.ValidateEmployee(&emp); err != nil {
		return emp, fmt.Errorf("invalid employee: %w", err)
	}
	return emp, nil
}

func (h *Handler) headcount(n *int) int {
	if n == nil {
		return h.DefaultHeadcount
	}
	return *n
}

// writeEngineError maps engine errors to HTTP statuses: lookup and grade
// errors are the caller's to fix, anything else is ours.
func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownPrefecture),
		errors.Is(err, domain.ErrUnknownGrade),
		errors.Is(err, domain.ErrNoBonusRate),
		errors.Is(err, domain.ErrInvalidGradeCombination):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.Logger.Errorf("api: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func paidIn(dates []time.Time, ym dateutil.YearMonth) bool {
	for _, d := range dates {
		if dateutil.MonthOf(d) == ym {
			return true
		}
	}
	return false
}

func targetMonth(year, month int) (dateutil.YearMonth, error) {
	if year < 1 || month < 1 || month > 12 {
		return dateutil.YearMonth{}, fmt.Errorf("target_year and target_month (1-12) are required")
	}
	return dateutil.NewYearMonth(year, time.Month(month)), nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Status: status, Message: message})
}
