package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Balerman2/CallShift/internal/core/domain"
	"github.com/Balerman2/CallShift/internal/core/port"
	"github.com/Balerman2/CallShift/internal/repository"
)

// fakeTx satisfies pgx.Tx for services that only need Commit/Rollback
// bookkeeping.
type fakeTx struct {
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }

func (t *fakeTx) Commit(ctx context.Context) error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }

func (t *fakeTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (t *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }

func (t *fakeTx) Conn() *pgx.Conn { return nil }

type fakeDB struct {
	tx       *fakeTx
	beginErr error
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	if db.beginErr != nil {
		return nil, db.beginErr
	}
	if db.tx == nil {
		db.tx = &fakeTx{}
	}
	return db.tx, nil
}

type fakeUserRepo struct {
	byDigest map[string]*domain.User
	users    []domain.User

	nextID      int64
	created     []domain.User
	lastLoginID int64
	lastLoginAt time.Time
	patches     map[int64]port.UserPatch
	updateErr   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byDigest: make(map[string]*domain.User),
		patches:  make(map[int64]port.UserPatch),
		nextID:   1,
	}
}

func (r *fakeUserRepo) WithTx(tx pgx.Tx) port.UserRepository { return r }

func (r *fakeUserRepo) Create(ctx context.Context, user domain.User) (int64, error) {
	user.ID = r.nextID
	r.nextID++
	r.created = append(r.created, user)
	return user.ID, nil
}

func (r *fakeUserRepo) GetByPINDigest(ctx context.Context, digest string) (*domain.User, error) {
	user, ok := r.byDigest[digest]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	r.lastLoginID = id
	r.lastLoginAt = at
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, id int64, patch port.UserPatch) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.patches[id] = patch
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]domain.User, error) {
	out := make([]domain.User, len(r.users))
	copy(out, r.users)
	return out, nil
}

// fakeOnCallRepo keeps an in-memory ledger so tests can observe open and
// closed rows across sequential hand-offs.
type fakeOnCallRepo struct {
	rows       []domain.OnCallAssignment
	names      map[int64]string
	lockedDivs []string
	closedDivs []string
	inserted   []domain.OnCallAssignment
	nextID     int64
	currentErr error
}

func newFakeOnCallRepo() *fakeOnCallRepo {
	return &fakeOnCallRepo{nextID: 1, names: make(map[int64]string)}
}

func (r *fakeOnCallRepo) seedOpen(division string, userID int64, name, phone string, start time.Time) {
	r.names[userID] = name
	r.rows = append(r.rows, domain.OnCallAssignment{
		ID:        r.nextID,
		Division:  division,
		UserID:    userID,
		Phone:     phone,
		StartTime: start,
	})
	r.nextID++
}

func (r *fakeOnCallRepo) openRows(division string) []domain.OnCallAssignment {
	var out []domain.OnCallAssignment
	for _, row := range r.rows {
		if row.Division == division && row.Open() {
			out = append(out, row)
		}
	}
	return out
}

func (r *fakeOnCallRepo) rowForUser(userID int64) *domain.OnCallAssignment {
	for i := range r.rows {
		if r.rows[i].UserID == userID {
			return &r.rows[i]
		}
	}
	return nil
}

func (r *fakeOnCallRepo) WithTx(tx pgx.Tx) port.OnCallRepository { return r }

func (r *fakeOnCallRepo) LockDivision(ctx context.Context, division string) error {
	r.lockedDivs = append(r.lockedDivs, division)
	return nil
}

func (r *fakeOnCallRepo) CloseOpen(ctx context.Context, division string, at time.Time) (int64, error) {
	r.closedDivs = append(r.closedDivs, division)
	var closed int64
	for i := range r.rows {
		if r.rows[i].Division == division && r.rows[i].Open() {
			end := at
			r.rows[i].EndTime = &end
			closed++
		}
	}
	return closed, nil
}

func (r *fakeOnCallRepo) Insert(ctx context.Context, assignment domain.OnCallAssignment) (*domain.OnCallAssignment, error) {
	assignment.ID = r.nextID
	r.nextID++
	r.rows = append(r.rows, assignment)
	r.inserted = append(r.inserted, assignment)
	return &assignment, nil
}

func (r *fakeOnCallRepo) CurrentOpen(ctx context.Context, division string) (*domain.OnCallStatus, error) {
	if r.currentErr != nil {
		return nil, r.currentErr
	}
	for i := len(r.rows) - 1; i >= 0; i-- {
		row := r.rows[i]
		if row.Division != division || !row.Open() {
			continue
		}
		return &domain.OnCallStatus{
			Division:  row.Division,
			UserID:    row.UserID,
			Name:      r.names[row.UserID],
			Phone:     row.Phone,
			StartTime: row.StartTime,
		}, nil
	}
	return nil, repository.ErrNotFound
}

type fakeAuditRepo struct {
	entries   []domain.AuditEntry
	recordErr error
	listErr   error
	lastLimit int
}

func (r *fakeAuditRepo) WithTx(tx pgx.Tx) port.AuditRepository { return r }

func (r *fakeAuditRepo) Record(ctx context.Context, entry domain.AuditEntry) error {
	if r.recordErr != nil {
		return r.recordErr
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	r.lastLimit = limit
	if r.listErr != nil {
		return nil, r.listErr
	}
	if limit < len(r.entries) {
		return r.entries[:limit], nil
	}
	return r.entries, nil
}

func (r *fakeAuditRepo) byType(eventType domain.AuditEventType) []domain.AuditEntry {
	var out []domain.AuditEntry
	for _, entry := range r.entries {
		if entry.EventType == eventType {
			out = append(out, entry)
		}
	}
	return out
}

type fakeGateway struct {
	result  port.GatewayResult
	updates []port.RoutingUpdate
}

func (g *fakeGateway) Notify(ctx context.Context, update port.RoutingUpdate) port.GatewayResult {
	g.updates = append(g.updates, update)
	return g.result
}

type fakePublisher struct {
	oncallEvents []domain.OnCallChangedEvent
	userEvents   []domain.UserCreatedEvent
	err          error
}

func (p *fakePublisher) PublishOnCallChanged(ctx context.Context, event domain.OnCallChangedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.oncallEvents = append(p.oncallEvents, event)
	return nil
}

func (p *fakePublisher) PublishUserCreated(ctx context.Context, event domain.UserCreatedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.userEvents = append(p.userEvents, event)
	return nil
}

var errBoom = errors.New("boom")
