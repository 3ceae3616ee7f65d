package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/KunafaIceCream/udst-healthpage/internal/application/command"
	"github.com/KunafaIceCream/udst-healthpage/internal/application/query"
	"github.com/KunafaIceCream/udst-healthpage/internal/application/saga"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/catalog"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/shared"
	"github.com/KunafaIceCream/udst-healthpage/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "UDST Health Sciences Portal API",
		"version":     "v1",
		"description": "Engagement engine for the College of Health Sciences portal",
		"endpoints": map[string]string{
			"health":      "/health",
			"session":     "/api/v1/session",
			"dashboard":   "/api/v1/dashboard",
			"leaderboard": "/api/v1/leaderboard",
			"rewards":     "/api/v1/rewards",
			"resources":   "/api/v1/resources",
			"progress":    "/api/v1/progress",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	// Default health response
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// handleMetrics handles the metrics endpoint.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := map[string]interface{}{
		"uptime_seconds": s.Uptime().Seconds(),
		"running":        s.IsRunning(),
	}

	if s.deps.ActivityFeed != nil {
		metrics["activity_entries"] = s.deps.ActivityFeed.Len()
	}

	writeJSON(w, http.StatusOK, metrics)
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// signupRequest is the body of POST /api/v1/session/signup.
type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Program  string `json:"program"`
}

// handleSignup handles POST /api/v1/session/signup
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if s.deps.SignupHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Signup handler not configured")
		return
	}

	var req signupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Name and email are required")
		return
	}

	cmd := command.SignupCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     progression.Role(req.Role),
		Program:  progression.Program(req.Program),
	}

	result, err := s.deps.SignupHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, "signup", err)
		return
	}

	result.Record = sanitizeRecord(result.Record)
	writeJSON(w, http.StatusCreated, result)
}

// loginRequest is the body of POST /api/v1/session/login and /session/start.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`

	// Signup fields, only used by /session/start with signup_if_missing.
	SignupIfMissing bool   `json:"signup_if_missing,omitempty"`
	Name            string `json:"name,omitempty"`
	Role            string `json:"role,omitempty"`
	Program         string `json:"program,omitempty"`
}

// handleLogin handles POST /api/v1/session/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.deps.LoginHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Login handler not configured")
		return
	}

	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.LoginHandler.Handle(r.Context(), command.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.writeDomainError(w, r, "login", err)
		return
	}

	result.Record = sanitizeRecord(result.Record)
	writeJSON(w, http.StatusOK, result)
}

// handleSessionStart handles POST /api/v1/session/start
//
// The combined flow: login (or signup when signup_if_missing is set),
// streak resume and dashboard composition in one round trip.
func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	if s.deps.SessionStartSaga == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Session saga not configured")
		return
	}

	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Email is required")
		return
	}

	result, err := s.deps.SessionStartSaga.Execute(r.Context(), saga.SessionStartInput{
		Email:           req.Email,
		Password:        req.Password,
		SignupIfMissing: req.SignupIfMissing,
		Name:            req.Name,
		Role:            progression.Role(req.Role),
		Program:         progression.Program(req.Program),
	})
	if err != nil {
		s.writeDomainError(w, r, "session_start", err)
		return
	}

	result.Record = sanitizeRecord(result.Record)
	writeJSON(w, http.StatusOK, result)
}

// handleResumeSession handles POST /api/v1/session/resume
func (s *Server) handleResumeSession(w http.ResponseWriter, r *http.Request) {
	if s.deps.ResumeSessionHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Resume handler not configured")
		return
	}

	result, err := s.deps.ResumeSessionHandler.Handle(r.Context(), command.ResumeSessionCommand{})
	if err != nil {
		s.writeDomainError(w, r, "resume_session", err)
		return
	}

	result.Record = sanitizeRecord(result.Record)
	writeJSON(w, http.StatusOK, result)
}

// handleLogout handles DELETE /api/v1/session
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if s.deps.LogoutHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Logout handler not configured")
		return
	}

	result, err := s.deps.LogoutHandler.Handle(r.Context(), command.LogoutCommand{})
	if err != nil {
		s.writeDomainError(w, r, "logout", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENGAGEMENT WRITE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleAccessResource handles POST /api/v1/engagement/resources/{id}/access
func (s *Server) handleAccessResource(w http.ResponseWriter, r *http.Request) {
	if s.deps.AccessResourceHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Resource handler not configured")
		return
	}

	resourceID := r.PathValue("id")
	if resourceID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Resource ID is required")
		return
	}

	result, err := s.deps.AccessResourceHandler.Handle(r.Context(), command.AccessResourceCommand{
		ResourceID: resourceID,
	})
	if err != nil {
		s.writeDomainError(w, r, "access_resource", err)
		return
	}

	result.Record = sanitizeRecord(result.Record)
	writeJSON(w, http.StatusOK, result)
}

// handleAddCollaboration handles POST /api/v1/engagement/collaborations
func (s *Server) handleAddCollaboration(w http.ResponseWriter, r *http.Request) {
	if s.deps.AddCollaborationHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Collaboration handler not configured")
		return
	}

	result, err := s.deps.AddCollaborationHandler.Handle(r.Context(), command.AddCollaborationCommand{})
	if err != nil {
		s.writeDomainError(w, r, "add_collaboration", err)
		return
	}

	result.Record = sanitizeRecord(result.Record)
	writeJSON(w, http.StatusOK, result)
}

// handleRedeemReward handles POST /api/v1/engagement/rewards/{id}/redeem
func (s *Server) handleRedeemReward(w http.ResponseWriter, r *http.Request) {
	if s.deps.RedeemRewardHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Reward handler not configured")
		return
	}

	rewardID := r.PathValue("id")
	if rewardID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Reward ID is required")
		return
	}

	result, err := s.deps.RedeemRewardHandler.Handle(r.Context(), command.RedeemRewardCommand{
		RewardID: rewardID,
	})
	if err != nil {
		s.writeDomainError(w, r, "redeem_reward", err)
		return
	}

	result.Record = sanitizeRecord(result.Record)
	writeJSON(w, http.StatusOK, result)
}

// handleClaimDailyBonus handles POST /api/v1/engagement/daily-bonus
func (s *Server) handleClaimDailyBonus(w http.ResponseWriter, r *http.Request) {
	if s.deps.ClaimDailyBonusHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Daily bonus handler not configured")
		return
	}

	result, err := s.deps.ClaimDailyBonusHandler.Handle(r.Context(), command.ClaimDailyBonusCommand{})
	if err != nil {
		s.writeDomainError(w, r, "claim_daily_bonus", err)
		return
	}

	result.Record = sanitizeRecord(result.Record)
	writeJSON(w, http.StatusOK, result)
}

// handleTogglePin handles POST /api/v1/curation/resources/{id}/pin
func (s *Server) handleTogglePin(w http.ResponseWriter, r *http.Request) {
	if s.deps.TogglePinHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Pin handler not configured")
		return
	}

	resourceID := r.PathValue("id")
	if resourceID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Resource ID is required")
		return
	}

	result, err := s.deps.TogglePinHandler.Handle(r.Context(), command.TogglePinCommand{
		ResourceID: resourceID,
	})
	if err != nil {
		s.writeDomainError(w, r, "toggle_pin", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// READ SIDE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetLeaderboard handles GET /api/v1/leaderboard
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetLeaderboardHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Leaderboard handler not configured")
		return
	}

	q := query.GetLeaderboardQuery{
		WindowSize: getQueryParamInt(r, "window", 0),
	}

	result, err := s.deps.GetLeaderboardHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, "get_leaderboard", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetRewards handles GET /api/v1/rewards
func (s *Server) handleGetRewards(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetRewardsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Rewards handler not configured")
		return
	}

	q := query.GetRewardsQuery{
		Category: catalog.RewardCategory(getQueryParam(r, "category", string(catalog.CategoryAll))),
	}
	if redeemed := r.URL.Query()["redeemed"]; len(redeemed) > 0 {
		q.RedeemedRewardIDs = redeemed
	}

	result, err := s.deps.GetRewardsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, "get_rewards", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetProgress handles GET /api/v1/progress
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetProgressHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Progress handler not configured")
		return
	}

	result, err := s.deps.GetProgressHandler.Handle(r.Context(), query.GetProgressQuery{})
	if err != nil {
		s.writeDomainError(w, r, "get_progress", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetResources handles GET /api/v1/resources
func (s *Server) handleGetResources(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetResourcesHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Resources handler not configured")
		return
	}

	result, err := s.deps.GetResourcesHandler.Handle(r.Context(), query.GetResourcesQuery{})
	if err != nil {
		s.writeDomainError(w, r, "get_resources", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetDashboard handles GET /api/v1/dashboard
func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetDashboardHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Dashboard handler not configured")
		return
	}

	result, err := s.deps.GetDashboardHandler.Handle(r.Context(), query.GetDashboardQuery{})
	if err != nil {
		s.writeDomainError(w, r, "get_dashboard", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetActivity handles GET /api/v1/activity
func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	if s.deps.ActivityFeed == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Activity feed not configured")
		return
	}

	limit := getQueryParamInt(r, "limit", 20)
	entries := s.deps.ActivityFeed.Recent(limit)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError maps application errors to HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var insufficient *command.InsufficientPointsError

	switch {
	case errors.As(err, &insufficient):
		writeJSONErrorWithDetails(w, http.StatusConflict, "insufficient_points",
			"Not enough points for this reward",
			fmt.Sprintf("reward %s costs %d, balance %d, short %d",
				insufficient.RewardID, insufficient.Cost, insufficient.Balance, insufficient.Shortfall))

	case errors.Is(err, shared.ErrLoginUnknownEmail):
		writeJSONError(w, http.StatusUnauthorized, "unknown_email", "No account matches this email")

	case errors.Is(err, progression.ErrRecordNotFound):
		writeJSONError(w, http.StatusNotFound, "no_active_session", "No active engagement record")

	case errors.Is(err, shared.ErrResourceNotFound):
		writeJSONError(w, http.StatusNotFound, "resource_not_found", "Unknown resource")

	case errors.Is(err, shared.ErrRewardNotFound):
		writeJSONError(w, http.StatusNotFound, "reward_not_found", "Unknown reward")

	case errors.Is(err, progression.ErrInvalidPassword):
		writeJSONError(w, http.StatusBadRequest, "invalid_password",
			fmt.Sprintf("Password must be at least %d characters", progression.MinPasswordLength))

	default:
		s.logger.Error("request failed",
			logger.String("op", op),
			logger.Err(err),
			logger.String("request_id", getRequestID(r.Context())),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Request failed")
	}
}

// sanitizeRecord clears the password hash before a record leaves the API.
// The copy is shallow; the response encoder only reads it.
func sanitizeRecord(r *progression.Record) *progression.Record {
	if r == nil {
		return nil
	}
	clean := *r
	clean.PasswordHash = ""
	return &clean
}

// decodeBody decodes a JSON request body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return false
	}
	return true
}
