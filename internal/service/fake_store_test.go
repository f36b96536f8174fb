package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"jaspel-be/internal/constant"
	"jaspel-be/internal/entity"
	"jaspel-be/internal/repository/contract"
	"jaspel-be/internal/repository/unitofwork"
	"jaspel-be/pkg/events"

	"github.com/google/uuid"
)

var errStoreDown = errors.New("store unavailable")

// fakeStore is an in-memory record store shared by every unit of work the
// fake factory hands out.
type fakeStore struct {
	mu          sync.Mutex
	users       map[uuid.UUID]*entity.User
	jaspel      []*entity.Jaspel
	tindakan    []*entity.Tindakan
	pasien      []*entity.JumlahPasienHarian
	pendapatan  []*entity.Pendapatan
	pengeluaran []*entity.Pengeluaran
	overrides   []*entity.JaspelOverride
	audits      []*entity.JaspelOverrideAudit

	// failures maps a method name to the number of calls that must fail.
	failures  map[string]int
	calls     map[string]int
	pingErr   error
	commits   int
	rollbacks int

	// joinedDrift is added to SumTotalJoined to simulate a desynced strategy.
	joinedDrift float64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]*entity.User),
		failures: make(map[string]int),
		calls:    make(map[string]int),
	}
}

func (s *fakeStore) failTimes(method string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = n
}

func (s *fakeStore) callCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// enter records a call and reports whether it must fail. Callers hold mu.
func (s *fakeStore) enter(method string) error {
	s.calls[method]++
	if s.failures[method] > 0 {
		s.failures[method]--
		return errStoreDown
	}
	return nil
}

func (s *fakeStore) addUser(name string, role constant.RoleName, active bool) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &entity.User{Id: uuid.New(), Name: name, IsActive: active, CreatedAt: time.Now()}
	if role != "" {
		roleId := uuid.New()
		u.RoleId = &roleId
		u.Role = &entity.Role{Id: roleId, Name: role.String(), DisplayName: role.DisplayName()}
	}
	s.users[u.Id] = u
	return u
}

type entryOpt func(e *entity.Jaspel)

func withStatus(status entity.JaspelStatus) entryOpt {
	return func(e *entity.Jaspel) { e.Status = status }
}

func withJenis(jenis entity.JaspelJenis) entryOpt {
	return func(e *entity.Jaspel) { e.Jenis = jenis }
}

func withNominal(nominal float64) entryOpt {
	return func(e *entity.Jaspel) { e.Nominal = nominal }
}

func withTanggal(t time.Time) entryOpt {
	return func(e *entity.Jaspel) { e.Tanggal = t }
}

func withValidatedAt(t time.Time) entryOpt {
	return func(e *entity.Jaspel) { e.ValidasiAt = &t }
}

func withInputBy(id uuid.UUID) entryOpt {
	return func(e *entity.Jaspel) { e.InputBy = &id }
}

func withValidator(id uuid.UUID) entryOpt {
	return func(e *entity.Jaspel) { e.ValidasiBy = &id }
}

func withTindakan() entryOpt {
	return func(e *entity.Jaspel) {
		id := uuid.New()
		e.TindakanId = &id
	}
}

var baseTime = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

// addEntry stores an approved entry whose nominal equals its total unless
// overridden by opts.
func (s *fakeStore) addEntry(userId uuid.UUID, total float64, opts ...entryOpt) *entity.Jaspel {
	s.mu.Lock()
	defer s.mu.Unlock()
	validatedAt := baseTime.Add(time.Hour)
	e := &entity.Jaspel{
		Id:         uuid.New(),
		UserId:     userId,
		Jenis:      entity.JaspelJenisShift,
		Tanggal:    baseTime,
		Nominal:    total,
		Total:      total,
		Status:     entity.JaspelStatusApproved,
		ValidasiAt: &validatedAt,
		CreatedAt:  baseTime,
		UpdatedAt:  baseTime,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.Status != entity.JaspelStatusApproved {
		e.ValidasiAt = nil
	}
	s.jaspel = append(s.jaspel, e)
	return e
}

func containsId(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func (s *fakeStore) matches(e *entity.Jaspel, f entity.JaspelFilter) bool {
	if e.DeletedAt != nil {
		return false
	}
	if f.UserId != nil && e.UserId != *f.UserId {
		return false
	}
	if len(f.Ids) > 0 && !containsId(f.Ids, e.Id) {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, st := range f.Statuses {
			if st == e.Status {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if f.DateFrom != nil && e.Tanggal.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && e.Tanggal.After(*f.DateTo) {
		return false
	}
	owner := s.users[e.UserId]
	if f.Search != "" && (owner == nil || !strings.Contains(strings.ToLower(owner.Name), strings.ToLower(f.Search))) {
		return false
	}
	if len(f.RoleNames) > 0 {
		if owner == nil || owner.Role == nil {
			return false
		}
		found := false
		for _, r := range f.RoleNames {
			if r == owner.Role.Name {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if len(f.InputByIn) > 0 && (e.InputBy == nil || !containsId(f.InputByIn, *e.InputBy)) {
		return false
	}
	if len(f.InputByNotIn) > 0 && e.InputBy != nil && containsId(f.InputByNotIn, *e.InputBy) {
		return false
	}
	if len(f.ValidatedByIn) > 0 && (e.ValidasiBy == nil || !containsId(f.ValidatedByIn, *e.ValidasiBy)) {
		return false
	}
	if len(f.ValidatedByNotIn) > 0 && e.ValidasiBy != nil && containsId(f.ValidatedByNotIn, *e.ValidasiBy) {
		return false
	}
	if f.LinkedToTindakan != nil && (e.TindakanId != nil) != *f.LinkedToTindakan {
		return false
	}
	return true
}

func (s *fakeStore) selectEntries(f entity.JaspelFilter) []*entity.Jaspel {
	out := make([]*entity.Jaspel, 0)
	for _, e := range s.jaspel {
		if s.matches(e, f) {
			out = append(out, e)
		}
	}
	return out
}

// --- factory and unit of work ---

type fakeFactory struct {
	store *fakeStore
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: f.store}
}

func (f *fakeFactory) Ping(ctx context.Context) error {
	return f.store.pingErr
}

type fakeUnitOfWork struct {
	store *fakeStore
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return u.store.enter("Begin")
}

func (u *fakeUnitOfWork) Commit() error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	if err := u.store.enter("Commit"); err != nil {
		return err
	}
	u.store.commits++
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	u.store.rollbacks++
	return nil
}

func (u *fakeUnitOfWork) JaspelRepository() contract.JaspelRepository {
	return &fakeJaspelRepo{u.store}
}
func (u *fakeUnitOfWork) UserRepository() contract.UserRepository { return &fakeUserRepo{u.store} }
func (u *fakeUnitOfWork) RoleRepository() contract.RoleRepository { return &fakeRoleRepo{u.store} }
func (u *fakeUnitOfWork) TindakanRepository() contract.TindakanRepository {
	return &fakeTindakanRepo{u.store}
}
func (u *fakeUnitOfWork) JumlahPasienRepository() contract.JumlahPasienRepository {
	return &fakePasienRepo{u.store}
}
func (u *fakeUnitOfWork) FlowRepository() contract.FlowRepository { return &fakeFlowRepo{u.store} }
func (u *fakeUnitOfWork) OverrideRepository() contract.OverrideRepository {
	return &fakeOverrideRepo{u.store}
}

// --- jaspel ---

type fakeJaspelRepo struct{ s *fakeStore }

func (r *fakeJaspelRepo) Create(ctx context.Context, j *entity.Jaspel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("JaspelCreate"); err != nil {
		return err
	}
	r.s.jaspel = append(r.s.jaspel, j)
	return nil
}

func (r *fakeJaspelRepo) FindOne(ctx context.Context, id uuid.UUID) (*entity.Jaspel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.jaspel {
		if e.Id == id {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeJaspelRepo) FindAll(ctx context.Context, f entity.JaspelFilter) ([]*entity.Jaspel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("FindAll"); err != nil {
		return nil, err
	}
	return r.s.selectEntries(f), nil
}

func (r *fakeJaspelRepo) Count(ctx context.Context, f entity.JaspelFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Count"); err != nil {
		return 0, err
	}
	return int64(len(r.s.selectEntries(f))), nil
}

func (r *fakeJaspelRepo) SumTotal(ctx context.Context, f entity.JaspelFilter) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("SumTotal"); err != nil {
		return 0, err
	}
	var total float64
	for _, e := range r.s.selectEntries(f) {
		total += e.Total
	}
	return total, nil
}

func (r *fakeJaspelRepo) SumTotalJoined(ctx context.Context, userId uuid.UUID) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("SumTotalJoined"); err != nil {
		return 0, err
	}
	var total float64
	for _, e := range r.s.selectEntries(entity.JaspelFilter{}.Approved().ForUser(userId)) {
		total += e.Total
	}
	return total + r.s.joinedDrift, nil
}

func (r *fakeJaspelRepo) SumByJenis(ctx context.Context, f entity.JaspelFilter) ([]entity.JenisAggregate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("SumByJenis"); err != nil {
		return nil, err
	}
	byJenis := make(map[entity.JaspelJenis]*entity.JenisAggregate)
	for _, e := range r.s.selectEntries(f) {
		agg, found := byJenis[e.Jenis]
		if !found {
			agg = &entity.JenisAggregate{Jenis: e.Jenis}
			byJenis[e.Jenis] = agg
		}
		agg.Total += e.Total
		agg.Count++
	}
	out := make([]entity.JenisAggregate, 0, len(byJenis))
	for _, agg := range byJenis {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Jenis < out[j].Jenis })
	return out, nil
}

func (r *fakeJaspelRepo) StatusBreakdown(ctx context.Context, userId uuid.UUID) (map[entity.JaspelStatus]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[entity.JaspelStatus]int64{
		entity.JaspelStatusApproved: 0,
		entity.JaspelStatusPending:  0,
		entity.JaspelStatusRejected: 0,
	}
	for _, e := range r.s.selectEntries(entity.JaspelFilter{UserId: &userId}) {
		out[e.Status]++
	}
	return out, nil
}

func (r *fakeJaspelRepo) AggregateByUser(ctx context.Context, f entity.JaspelFilter) ([]entity.UserAggregate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("AggregateByUser"); err != nil {
		return nil, err
	}
	byUser := make(map[uuid.UUID]*entity.UserAggregate)
	order := make([]uuid.UUID, 0)
	for _, e := range r.s.selectEntries(f) {
		owner := r.s.users[e.UserId]
		if owner == nil {
			continue
		}
		agg, found := byUser[e.UserId]
		if !found {
			agg = &entity.UserAggregate{UserId: owner.Id, UserName: owner.Name, RoleName: owner.RoleName()}
			byUser[e.UserId] = agg
			order = append(order, e.UserId)
		}
		agg.Total += e.Total
		agg.Count++
		if e.ValidasiAt != nil {
			if agg.FirstValidation == nil || e.ValidasiAt.Before(*agg.FirstValidation) {
				agg.FirstValidation = e.ValidasiAt
			}
			if agg.LastValidation == nil || e.ValidasiAt.After(*agg.LastValidation) {
				agg.LastValidation = e.ValidasiAt
			}
		}
	}
	out := make([]entity.UserAggregate, 0, len(order))
	for _, id := range order {
		out = append(out, *byUser[id])
	}
	return out, nil
}

func (r *fakeJaspelRepo) AggregateByRole(ctx context.Context, f entity.JaspelFilter) ([]entity.RoleAggregate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("AggregateByRole"); err != nil {
		return nil, err
	}
	byRole := make(map[string]*entity.RoleAggregate)
	users := make(map[string]map[uuid.UUID]bool)
	for _, e := range r.s.selectEntries(f) {
		owner := r.s.users[e.UserId]
		if owner == nil || owner.Role == nil {
			continue
		}
		name := owner.Role.Name
		agg, found := byRole[name]
		if !found {
			agg = &entity.RoleAggregate{RoleName: name, DisplayName: owner.Role.DisplayName}
			byRole[name] = agg
			users[name] = make(map[uuid.UUID]bool)
		}
		agg.Total += e.Total
		agg.Count++
		users[name][owner.Id] = true
	}
	out := make([]entity.RoleAggregate, 0, len(byRole))
	for name, agg := range byRole {
		agg.UserCount = int64(len(users[name]))
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoleName < out[j].RoleName })
	return out, nil
}

func (r *fakeJaspelRepo) AggregateByOriginatorRole(ctx context.Context) ([]entity.RoleAggregate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byRole := make(map[string]*entity.RoleAggregate)
	for _, e := range r.s.selectEntries(entity.JaspelFilter{}) {
		name := ""
		if e.InputBy != nil {
			name = r.s.users[*e.InputBy].RoleName()
		}
		agg, found := byRole[name]
		if !found {
			agg = &entity.RoleAggregate{RoleName: name}
			byRole[name] = agg
		}
		agg.Total += e.Total
		agg.Count++
	}
	out := make([]entity.RoleAggregate, 0, len(byRole))
	for _, agg := range byRole {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoleName < out[j].RoleName })
	return out, nil
}

func (r *fakeJaspelRepo) DistinctUserIds(ctx context.Context, f entity.JaspelFilter) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("DistinctUserIds"); err != nil {
		return nil, err
	}
	seen := make(map[uuid.UUID]bool)
	out := make([]uuid.UUID, 0)
	for _, e := range r.s.selectEntries(f) {
		if !seen[e.UserId] {
			seen[e.UserId] = true
			out = append(out, e.UserId)
		}
	}
	return out, nil
}

func (r *fakeJaspelRepo) UpdateStatus(ctx context.Context, ids []uuid.UUID, status entity.JaspelStatus, validatorId uuid.UUID, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("UpdateStatus"); err != nil {
		return 0, err
	}
	var n int64
	for _, e := range r.s.jaspel {
		if !containsId(ids, e.Id) || e.Status != entity.JaspelStatusPending || e.DeletedAt != nil {
			continue
		}
		e.Status = status
		v := validatorId
		e.ValidasiBy = &v
		when := at
		e.ValidasiAt = &when
		n++
	}
	return n, nil
}

// --- users and roles ---

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) FindOne(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("UserFindOne"); err != nil {
		return nil, err
	}
	return r.s.users[id], nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, f entity.UserFilter) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("UserFindAll"); err != nil {
		return nil, err
	}
	out := make([]*entity.User, 0)
	for _, u := range r.s.users {
		if len(f.Ids) > 0 && !containsId(f.Ids, u.Id) {
			continue
		}
		if f.ActiveOnly && !u.IsActive {
			continue
		}
		if len(f.RoleNames) > 0 {
			found := false
			for _, name := range f.RoleNames {
				if name == u.RoleName() {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeUserRepo) ExistingIds(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, found := r.s.users[id]; found {
			out = append(out, id)
		}
	}
	return out, nil
}

type fakeRoleRepo struct{ s *fakeStore }

func (r *fakeRoleRepo) FindOne(ctx context.Context, id uuid.UUID) (*entity.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Role != nil && u.Role.Id == id {
			return u.Role, nil
		}
	}
	return nil, nil
}

func (r *fakeRoleRepo) FindAll(ctx context.Context) ([]*entity.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Role, 0)
	for _, u := range r.s.users {
		if u.Role != nil {
			out = append(out, u.Role)
		}
	}
	return out, nil
}

// --- medical ---

type fakeTindakanRepo struct{ s *fakeStore }

func (r *fakeTindakanRepo) CountByUser(ctx context.Context, userId uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("TindakanCount"); err != nil {
		return 0, err
	}
	var n int64
	for _, t := range r.s.tindakan {
		if t.UserId == userId {
			n++
		}
	}
	return n, nil
}

type fakePasienRepo struct{ s *fakeStore }

func (r *fakePasienRepo) FindByUser(ctx context.Context, userId uuid.UUID) ([]*entity.JumlahPasienHarian, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.JumlahPasienHarian, 0)
	for _, p := range r.s.pasien {
		if p.UserId == userId {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- flow ---

type fakeFlowRepo struct{ s *fakeStore }

// flowRows projects every record type onto its originator, validator and status.
func (r *fakeFlowRepo) flowRows(recordType entity.FlowRecordType) [][3]interface{} {
	rows := make([][3]interface{}, 0)
	switch recordType {
	case entity.FlowRecordJaspel:
		for _, e := range r.s.jaspel {
			if e.DeletedAt == nil {
				rows = append(rows, [3]interface{}{e.InputBy, e.ValidasiBy, e.Status})
			}
		}
	case entity.FlowRecordTindakan:
		for _, t := range r.s.tindakan {
			rows = append(rows, [3]interface{}{t.InputBy, t.ValidasiBy, t.Status})
		}
	case entity.FlowRecordPendapatan:
		for _, p := range r.s.pendapatan {
			in := p.InputBy
			rows = append(rows, [3]interface{}{&in, p.ValidasiBy, p.Status})
		}
	case entity.FlowRecordPengeluaran:
		for _, p := range r.s.pengeluaran {
			in := p.InputBy
			rows = append(rows, [3]interface{}{&in, p.ValidasiBy, p.Status})
		}
	}
	return rows
}

func (r *fakeFlowRepo) countBy(recordType entity.FlowRecordType, column int, userIds []uuid.UUID) map[uuid.UUID]int64 {
	out := make(map[uuid.UUID]int64)
	for _, row := range r.flowRows(recordType) {
		id, _ := row[column].(*uuid.UUID)
		if id != nil && containsId(userIds, *id) {
			out[*id]++
		}
	}
	return out
}

func (r *fakeFlowRepo) CountByOriginators(ctx context.Context, recordType entity.FlowRecordType, userIds []uuid.UUID) (map[uuid.UUID]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("CountByOriginators"); err != nil {
		return nil, err
	}
	return r.countBy(recordType, 0, userIds), nil
}

func (r *fakeFlowRepo) CountByValidators(ctx context.Context, recordType entity.FlowRecordType, userIds []uuid.UUID) (map[uuid.UUID]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.countBy(recordType, 1, userIds), nil
}

func (r *fakeFlowRepo) CountPending(ctx context.Context, recordType entity.FlowRecordType) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, row := range r.flowRows(recordType) {
		if row[2].(entity.JaspelStatus) == entity.JaspelStatusPending {
			n++
		}
	}
	return n, nil
}

func (r *fakeFlowRepo) CreatePendapatan(ctx context.Context, p *entity.Pendapatan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.pendapatan = append(r.s.pendapatan, p)
	return nil
}

func (r *fakeFlowRepo) CreatePengeluaran(ctx context.Context, p *entity.Pengeluaran) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.pengeluaran = append(r.s.pengeluaran, p)
	return nil
}

// --- overrides ---

type fakeOverrideRepo struct{ s *fakeStore }

func (r *fakeOverrideRepo) Create(ctx context.Context, o *entity.JaspelOverride) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.overrides = append(r.s.overrides, o)
	return nil
}

func (r *fakeOverrideRepo) FindActiveByUsers(ctx context.Context, userIds []uuid.UUID) (map[uuid.UUID]*entity.JaspelOverride, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[uuid.UUID]*entity.JaspelOverride)
	for _, o := range r.s.overrides {
		if !o.IsActive || !containsId(userIds, o.UserId) {
			continue
		}
		if prev, found := out[o.UserId]; !found || o.CreatedAt.After(prev.CreatedAt) {
			out[o.UserId] = o
		}
	}
	return out, nil
}

func (r *fakeOverrideRepo) CreateAudit(ctx context.Context, a *entity.JaspelOverrideAudit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audits = append(r.s.audits, a)
	return nil
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []eventRecord
}

type eventRecord struct {
	Type    string
	Payload map[string]interface{}
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventRecord{Type: event.EventType(), Payload: event.Payload()})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
