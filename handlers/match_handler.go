package handlers

import (
	"errors"
	"net/http"

	"github.com/raheem101000-netizen/gamehub/middleware"
	"github.com/raheem101000-netizen/gamehub/services"
)

// MatchHandler exposes the tournament progression engine over HTTP.
type MatchHandler struct {
	progression services.ProgressionService
	standings   services.StandingsService
	chat        services.ChatService
}

func NewMatchHandler(
	progression services.ProgressionService,
	standings services.StandingsService,
	chat services.ChatService,
) *MatchHandler {
	return &MatchHandler{
		progression: progression,
		standings:   standings,
		chat:        chat,
	}
}

// GenerateMatchesHandler runs the tournament format's pairing generator.
// POST /tournaments/{tournamentID}/matches/generate
func (h *MatchHandler) GenerateMatchesHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.progression.GenerateMatches(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateCustomMatchHandler creates a match between two explicitly chosen
// teams. POST /tournaments/{tournamentID}/matches
func (h *MatchHandler) CreateCustomMatchHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Team1ID int `json:"team1_id"`
		Team2ID int `json:"team2_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Team1ID <= 0 || input.Team2ID <= 0 {
		badRequestResponse(w, r, errors.New("team1_id and team2_id are required"))
		return
	}

	match, err := h.progression.CreateCustomMatch(r.Context(), tournamentID, input.Team1ID, input.Team2ID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RelinkMatchHandler points a pending match at two different teams.
// PATCH /matches/{matchID}/teams
func (h *MatchHandler) RelinkMatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Team1ID int `json:"team1_id"`
		Team2ID int `json:"team2_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Team1ID <= 0 || input.Team2ID <= 0 {
		badRequestResponse(w, r, errors.New("team1_id and team2_id are required"))
		return
	}

	match, err := h.progression.RelinkMatch(r.Context(), matchID, input.Team1ID, input.Team2ID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateMatchResultHandler records a full result with scores.
// PATCH /matches/{matchID}
func (h *MatchHandler) UpdateMatchResultHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		WinnerID   int  `json:"winner_id"`
		Team1Score *int `json:"team1_score"`
		Team2Score *int `json:"team2_score"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.WinnerID <= 0 {
		badRequestResponse(w, r, errors.New("winner_id is required"))
		return
	}

	match, err := h.progression.ApplyResult(r.Context(), matchID, input.WinnerID, input.Team1Score, input.Team2Score)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SelectWinnerHandler completes a match without scores.
// POST /matches/{matchID}/winner
func (h *MatchHandler) SelectWinnerHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		WinnerID int `json:"winner_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.WinnerID <= 0 {
		badRequestResponse(w, r, errors.New("winner_id is required"))
		return
	}

	match, err := h.progression.SelectWinner(r.Context(), matchID, input.WinnerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMatchesHandler returns every match of a tournament ordered by
// round. GET /tournaments/{tournamentID}/matches
func (h *MatchHandler) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.progression.ListMatches(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StandingsHandler returns the standings table.
// GET /tournaments/{tournamentID}/standings
func (h *MatchHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.standings.GetStandings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// MarkThreadReadHandler resets the caller's unread counter for a match
// thread. POST /matches/{matchID}/thread/read
func (h *MatchHandler) MarkThreadReadHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	if err := h.chat.MarkThreadRead(r.Context(), matchID, identity.UserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
