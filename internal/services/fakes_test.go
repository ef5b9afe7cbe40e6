package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/tarpaulin-edu/course-service/internal/models"
	"github.com/tarpaulin-edu/course-service/internal/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRepository is an in-memory Repository used across the service
// tests. All sub-repositories share one store guarded by one mutex.
type fakeRepository struct {
	mu sync.Mutex

	courses      map[uint]*models.Course
	instructors  map[uint]uint          // courseID -> instructorID
	enrollments  map[uint]map[uint]bool // courseID -> set of studentIDs
	users        map[uint]*models.User
	avatars      map[uint]bool
	auditRecords []*models.AuditRecord

	nextCourseID uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		courses:     make(map[uint]*models.Course),
		instructors: make(map[uint]uint),
		enrollments: make(map[uint]map[uint]bool),
		users:       make(map[uint]*models.User),
		avatars:     make(map[uint]bool),
	}
}

func (r *fakeRepository) addUser(id uint, role models.UserRole) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := &models.User{ID: id, Username: "user", Role: role}
	r.users[id] = user
	return user
}

func (r *fakeRepository) addCourse(course models.Course, instructorID uint) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextCourseID++
	course.ID = r.nextCourseID
	r.courses[course.ID] = &course
	r.instructors[course.ID] = instructorID
	return course.ID
}

func (r *fakeRepository) Course() repositories.CourseRepository { return &fakeCourseRepo{r} }
func (r *fakeRepository) User() repositories.UserRepository     { return &fakeUserRepo{r} }
func (r *fakeRepository) Avatar() repositories.AvatarRepository { return &fakeAvatarRepo{r} }
func (r *fakeRepository) Audit() repositories.AuditRepository   { return &fakeAuditRepo{r} }

func (r *fakeRepository) WithTransaction(_ context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

func (r *fakeRepository) Ping(_ context.Context) error { return nil }
func (r *fakeRepository) Close() error                 { return nil }

// ===== COURSES =====

type fakeCourseRepo struct{ store *fakeRepository }

func (f *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.nextCourseID++
	course.ID = f.store.nextCourseID
	clone := *course
	f.store.courses[course.ID] = &clone
	return nil
}

func (f *fakeCourseRepo) GetByID(_ context.Context, id uint) (*models.Course, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	course, ok := f.store.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *course
	return &clone, nil
}

func (f *fakeCourseRepo) List(_ context.Context, filters repositories.CourseFilters) ([]*models.Course, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	all := make([]*models.Course, 0, len(f.store.courses))
	for _, course := range f.store.courses {
		clone := *course
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Subject != all[j].Subject {
			return all[i].Subject < all[j].Subject
		}
		return all[i].ID < all[j].ID
	})

	if filters.Offset >= len(all) {
		return nil, nil
	}
	all = all[filters.Offset:]
	if filters.Limit > 0 && filters.Limit < len(all) {
		all = all[:filters.Limit]
	}
	return all, nil
}

func (f *fakeCourseRepo) Update(_ context.Context, id uint, fields map[string]any) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	course, ok := f.store.courses[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range fields {
		switch key {
		case "number":
			course.Number = value.(int)
		case "subject":
			course.Subject = value.(string)
		case "title":
			course.Title = value.(string)
		case "term":
			course.Term = value.(string)
		}
	}
	return nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id uint) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if _, ok := f.store.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.store.courses, id)
	return nil
}

func (f *fakeCourseRepo) GetInstructorID(_ context.Context, courseID uint) (uint, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	id, ok := f.store.instructors[courseID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	return id, nil
}

func (f *fakeCourseRepo) UpsertInstructor(_ context.Context, courseID, instructorID uint) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.instructors[courseID] = instructorID
	return nil
}

func (f *fakeCourseRepo) DeleteInstructor(_ context.Context, courseID uint) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	delete(f.store.instructors, courseID)
	return nil
}

func (f *fakeCourseRepo) GetStudentIDs(_ context.Context, courseID uint) ([]uint, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var ids []uint
	for id := range f.store.enrollments[courseID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeCourseRepo) IsEnrolled(_ context.Context, studentID, courseID uint) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.enrollments[courseID][studentID], nil
}

func (f *fakeCourseRepo) AddStudents(_ context.Context, courseID uint, studentIDs []uint) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if f.store.enrollments[courseID] == nil {
		f.store.enrollments[courseID] = make(map[uint]bool)
	}
	for _, id := range studentIDs {
		f.store.enrollments[courseID][id] = true
	}
	return nil
}

func (f *fakeCourseRepo) RemoveStudents(_ context.Context, courseID uint, studentIDs []uint) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, id := range studentIDs {
		delete(f.store.enrollments[courseID], id)
	}
	return nil
}

func (f *fakeCourseRepo) DeleteEnrollments(_ context.Context, courseID uint) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	delete(f.store.enrollments, courseID)
	return nil
}

func (f *fakeCourseRepo) GetCourseIDsByStudent(_ context.Context, studentID uint) ([]uint, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var ids []uint
	for courseID, students := range f.store.enrollments {
		if students[studentID] {
			ids = append(ids, courseID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeCourseRepo) GetCourseIDsByInstructor(_ context.Context, instructorID uint) ([]uint, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var ids []uint
	for courseID, id := range f.store.instructors {
		if id == instructorID {
			ids = append(ids, courseID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// ===== USERS =====

type fakeUserRepo struct{ store *fakeRepository }

func (f *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	user, ok := f.store.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetBySubject(_ context.Context, subject string) (*models.User, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, user := range f.store.users {
		if user.Subject == subject {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) List(_ context.Context, filters repositories.UserFilters) ([]*models.User, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var users []*models.User
	for _, user := range f.store.users {
		if filters.Role != nil && user.Role != *filters.Role {
			continue
		}
		clone := *user
		users = append(users, &clone)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (f *fakeUserRepo) GetRole(_ context.Context, id uint) (models.UserRole, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	user, ok := f.store.users[id]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return user.Role, nil
}

func (f *fakeUserRepo) HasRole(_ context.Context, id uint, role models.UserRole) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	user, ok := f.store.users[id]
	if !ok {
		return false, nil
	}
	return user.Role == role, nil
}

// ===== AVATARS =====

type fakeAvatarRepo struct{ store *fakeRepository }

func (f *fakeAvatarRepo) Exists(_ context.Context, userID uint) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.avatars[userID], nil
}

func (f *fakeAvatarRepo) Create(_ context.Context, userID uint) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.avatars[userID] = true
	return nil
}

func (f *fakeAvatarRepo) Delete(_ context.Context, userID uint) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	delete(f.store.avatars, userID)
	return nil
}

// ===== AUDIT =====

type fakeAuditRepo struct{ store *fakeRepository }

func (f *fakeAuditRepo) Append(_ context.Context, record *models.AuditRecord) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.auditRecords = append(f.store.auditRecords, record)
	return nil
}

func (f *fakeAuditRepo) ListRecent(_ context.Context, limit int) ([]*models.AuditRecord, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	records := f.store.auditRecords
	if limit > 0 && limit < len(records) {
		records = records[len(records)-limit:]
	}
	out := make([]*models.AuditRecord, len(records))
	copy(out, records)
	return out, nil
}

// ===== BLOB STORE =====

// fakeAvatarStore is an in-memory AvatarStore.
type fakeAvatarStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeAvatarStore() *fakeAvatarStore {
	return &fakeAvatarStore{objects: make(map[string][]byte)}
}

func (s *fakeAvatarStore) Upload(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

func (s *fakeAvatarStore) Download(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, repositories.ErrObjectNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *fakeAvatarStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return repositories.ErrObjectNotFound
	}
	delete(s.objects, key)
	return nil
}
