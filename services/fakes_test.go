package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/raheem101000-netizen/gamehub/models"
	"github.com/raheem101000-netizen/gamehub/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
}

func newFakeTournamentRepo(ts ...*models.Tournament) *fakeTournamentRepo {
	r := &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament)}
	for _, t := range ts {
		r.tournaments[t.ID] = t
	}
	return r
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTournamentRepo) UpdateCurrentRound(_ context.Context, _ repositories.SQLExecutor, id, round int) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.CurrentRound = round
	return nil
}

func (r *fakeTournamentRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

type fakeTeamRepo struct {
	teams   map[int]*models.Team
	members map[int][]models.User
	// membersErr makes ListMembers fail for the given team id.
	membersErr map[int]error
}

func newFakeTeamRepo(teams ...*models.Team) *fakeTeamRepo {
	r := &fakeTeamRepo{
		teams:      make(map[int]*models.Team),
		members:    make(map[int][]models.User),
		membersErr: make(map[int]error),
	}
	for _, t := range teams {
		r.teams[t.ID] = t
	}
	return r
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTeamRepo) ListByTournament(_ context.Context, tournamentID int) ([]models.Team, error) {
	ids := make([]int, 0, len(r.teams))
	for id, t := range r.teams {
		if t.TournamentID == tournamentID {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	out := make([]models.Team, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.teams[id])
	}
	return out, nil
}

func (r *fakeTeamRepo) IncrementStats(_ context.Context, _ repositories.SQLExecutor, id int, wins, losses, points int) error {
	t, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.Wins += wins
	t.Losses += losses
	t.Points += points
	return nil
}

func (r *fakeTeamRepo) ListMembers(_ context.Context, teamID int) ([]models.User, error) {
	if err := r.membersErr[teamID]; err != nil {
		return nil, err
	}
	return r.members[teamID], nil
}

type fakeMatchRepo struct {
	matches []*models.Match
	nextID  int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{nextID: 1}
}

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	m.ID = r.nextID
	r.nextID++
	m.CreatedAt = time.Now()
	cp := *m
	r.matches = append(r.matches, &cp)
	return nil
}

func (r *fakeMatchRepo) find(id int) *models.Match {
	for _, m := range r.matches {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	m := r.find(id)
	if m == nil {
		return nil, repositories.ErrMatchNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMatchRepo) GetByIDForUpdate(ctx context.Context, _ repositories.SQLExecutor, id int) (*models.Match, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeMatchRepo) ListByTournament(_ context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]models.Match, error) {
	out := make([]models.Match, 0)
	for _, m := range r.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if round != nil && m.Round != *round {
			continue
		}
		if status != nil && m.Status != *status {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeMatchRepo) FindByTeams(_ context.Context, tournamentID, teamA, teamB int) (*models.Match, error) {
	for _, m := range r.matches {
		if m.TournamentID != tournamentID || m.Team1ID == nil || m.Team2ID == nil {
			continue
		}
		if (*m.Team1ID == teamA && *m.Team2ID == teamB) || (*m.Team1ID == teamB && *m.Team2ID == teamA) {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) UpdateResult(_ context.Context, _ repositories.SQLExecutor, id int, winnerID int, team1Score, team2Score *int) error {
	m := r.find(id)
	if m == nil {
		return repositories.ErrMatchNotFound
	}
	m.Status = models.MatchStatusCompleted
	m.WinnerID = &winnerID
	m.Team1Score = team1Score
	m.Team2Score = team2Score
	return nil
}

func (r *fakeMatchRepo) UpdateSlot(_ context.Context, _ repositories.SQLExecutor, id, slot, teamID int) error {
	m := r.find(id)
	if m == nil {
		return repositories.ErrMatchNotFound
	}
	switch slot {
	case 1:
		m.Team1ID = &teamID
	case 2:
		m.Team2ID = &teamID
	default:
		return repositories.ErrMatchInvalidSlot
	}
	return nil
}

func (r *fakeMatchRepo) UpdateTeams(_ context.Context, _ repositories.SQLExecutor, id, team1ID, team2ID int) error {
	m := r.find(id)
	if m == nil {
		return repositories.ErrMatchNotFound
	}
	m.Team1ID = &team1ID
	m.Team2ID = &team2ID
	return nil
}

type threadKey struct{ matchID, userID int }

type fakeThreadRepo struct {
	threads map[threadKey]*models.MessageThread
	nextID  int
	// failFor injects an upsert failure for one user.
	failFor map[int]error
}

func newFakeThreadRepo() *fakeThreadRepo {
	return &fakeThreadRepo{
		threads: make(map[threadKey]*models.MessageThread),
		nextID:  1,
		failFor: make(map[int]error),
	}
}

func (r *fakeThreadRepo) GetOrCreate(_ context.Context, matchID, userID int) (*models.MessageThread, error) {
	if err := r.failFor[userID]; err != nil {
		return nil, err
	}
	key := threadKey{matchID, userID}
	if t, ok := r.threads[key]; ok {
		cp := *t
		return &cp, nil
	}
	t := &models.MessageThread{ID: r.nextID, MatchID: matchID, UserID: userID, CreatedAt: time.Now()}
	r.nextID++
	r.threads[key] = t
	cp := *t
	return &cp, nil
}

func (r *fakeThreadRepo) TouchPreview(_ context.Context, matchID, userID int, lastMessage string, at time.Time) error {
	t, ok := r.threads[threadKey{matchID, userID}]
	if !ok {
		return repositories.ErrThreadNotFound
	}
	t.LastMessage = &lastMessage
	t.LastMessageTime = &at
	return nil
}

func (r *fakeThreadRepo) BumpUnread(_ context.Context, matchID, senderID int, lastMessage string, at time.Time) error {
	for key, t := range r.threads {
		if key.matchID == matchID && key.userID != senderID {
			t.LastMessage = &lastMessage
			t.LastMessageTime = &at
			t.UnreadCount++
		}
	}
	return nil
}

func (r *fakeThreadRepo) ResetUnread(_ context.Context, matchID, userID int) error {
	t, ok := r.threads[threadKey{matchID, userID}]
	if !ok {
		return repositories.ErrThreadNotFound
	}
	t.UnreadCount = 0
	return nil
}

type fakeUserRepo struct {
	users map[int]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeMessageRepo struct {
	chatMessages    []*models.ChatMessage
	channelMessages []*models.ChannelMessage
	nextID          int
	createErr       error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{nextID: 1}
}

func (r *fakeMessageRepo) CreateChatMessage(_ context.Context, msg *models.ChatMessage) error {
	if r.createErr != nil {
		return r.createErr
	}
	msg.ID = r.nextID
	r.nextID++
	msg.CreatedAt = time.Now()
	cp := *msg
	r.chatMessages = append(r.chatMessages, &cp)
	return nil
}

func (r *fakeMessageRepo) CreateChannelMessage(_ context.Context, msg *models.ChannelMessage) error {
	if r.createErr != nil {
		return r.createErr
	}
	msg.ID = r.nextID
	r.nextID++
	msg.CreatedAt = time.Now()
	cp := *msg
	r.channelMessages = append(r.channelMessages, &cp)
	return nil
}

var errBoom = fmt.Errorf("boom")
