package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"school-quiz-bot/internal/domain"
	"school-quiz-bot/internal/leaderboard"
	"school-quiz-bot/internal/reading"
)

// UserDirectory is the read side of the user store the API needs.
type UserDirectory interface {
	GetUser(ctx context.Context, telegramID int64) (domain.User, error)
	Login(ctx context.Context, login, password string) (domain.User, error)
}

// ReadingResultStore persists scored reading submissions.
type ReadingResultStore interface {
	SaveResult(ctx context.Context, userID int64, mockID string, payload []byte) error
	GetResult(ctx context.Context, userID int64) ([]byte, error)
}

// Handler serves the web side of the service: login, user lookup, the
// reading assessment, and the live leaderboard stream.
type Handler struct {
	users    UserDirectory
	mocks    *reading.Library
	results  ReadingResultStore
	board    *leaderboard.Board
	wsServer *leaderboardWS
}

func NewHandler(users UserDirectory, mocks *reading.Library, results ReadingResultStore, board *leaderboard.Board) *Handler {
	return &Handler{
		users:    users,
		mocks:    mocks,
		results:  results,
		board:    board,
		wsServer: newLeaderboardWS(board),
	}
}

// Router wires every route.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.HandleFunc("/login", h.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/users/{id}", h.handleGetUser).Methods(http.MethodGet)
	r.HandleFunc("/reading-mocks", h.handleReadingMocks).Methods(http.MethodGet)
	r.HandleFunc("/reading-mock", h.handleReadingMock).Methods(http.MethodGet)
	r.HandleFunc("/reading-results", h.handleReadingResult).Methods(http.MethodPost)
	r.HandleFunc("/reading-results/{id}", h.handleGetReadingResult).Methods(http.MethodGet)
	r.HandleFunc("/ws/leaderboard", h.wsServer.serve)
	return r
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.users.Login(r.Context(), req.Login, req.Password)
	if errors.Is(err, domain.ErrUserNotFound) {
		writeError(w, http.StatusBadRequest, "login or password incorrect or not registered")
		return
	}
	if err != nil {
		log.Printf("http: login: %v", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	user, err := h.users.GetUser(r.Context(), id)
	if errors.Is(err, domain.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		log.Printf("http: get user %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) handleReadingMocks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.mocks.All())
}

func (h *Handler) handleReadingMock(w http.ResponseWriter, _ *http.Request) {
	mock, err := h.mocks.Random()
	if err != nil {
		writeError(w, http.StatusNotFound, "no reading mocks loaded")
		return
	}
	writeJSON(w, http.StatusOK, mock)
}

type readingResultRequest struct {
	UserID  int64              `json:"userId"`
	MockID  string             `json:"mockId"`
	Answers reading.Submission `json:"answers"`
}

type readingResultRecord struct {
	MockID  string             `json:"mock_id"`
	Date    time.Time          `json:"date"`
	Answers reading.Submission `json:"answers"`
	Scores  reading.Scores     `json:"scores"`
	Total   int                `json:"total"`
}

func (h *Handler) handleReadingResult(w http.ResponseWriter, r *http.Request) {
	var req readingResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == 0 || req.MockID == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	mock, ok := h.mocks.Find(req.MockID)
	if !ok {
		writeError(w, http.StatusNotFound, "mock not found")
		return
	}

	scores := reading.Score(mock, req.Answers)
	record := readingResultRecord{
		MockID:  req.MockID,
		Date:    time.Now(),
		Answers: req.Answers,
		Scores:  scores,
		Total:   scores.Total,
	}

	payload, err := json.Marshal(record)
	if err != nil {
		log.Printf("http: marshal reading result: %v", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if err := h.results.SaveResult(r.Context(), req.UserID, req.MockID, payload); err != nil {
		log.Printf("http: save reading result for %d: %v", req.UserID, err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) handleGetReadingResult(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	payload, err := h.results.GetResult(r.Context(), id)
	if errors.Is(err, domain.ErrResultNotFound) {
		writeError(w, http.StatusNotFound, "result not found")
		return
	}
	if err != nil {
		log.Printf("http: get reading result for %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, json.RawMessage(payload))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("http: write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
