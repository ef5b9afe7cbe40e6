package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tarpaulin-edu/course-service/internal/events"
	"github.com/tarpaulin-edu/course-service/internal/models"
)

func TestEnrollmentService_Reconcile(t *testing.T) {
	ctx := context.Background()

	setup := func() (*fakeRepository, *events.MockPublisher, EnrollmentService, uint) {
		repo := newFakeRepository()
		publisher := events.NewMockPublisher()
		service := NewEnrollmentService(repo, publisher, testLogger())

		repo.addUser(10, models.RoleInstructor)
		repo.addUser(20, models.RoleStudent)
		repo.addUser(21, models.RoleStudent)
		repo.addUser(22, models.RoleStudent)
		courseID := repo.addCourse(models.Course{Subject: "CS", Number: 493, Title: "Cloud", Term: "fa26"}, 10)
		return repo, publisher, service, courseID
	}

	t.Run("adds and removes students", func(t *testing.T) {
		repo, publisher, service, courseID := setup()
		if err := repo.Course().AddStudents(ctx, courseID, []uint{22}); err != nil {
			t.Fatal(err)
		}

		if err := service.Reconcile(ctx, courseID, []uint{20, 21}, []uint{22}); err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}

		students, _ := repo.Course().GetStudentIDs(ctx, courseID)
		if len(students) != 2 || students[0] != 20 || students[1] != 21 {
			t.Errorf("enrolled students = %v, want [20 21]", students)
		}

		published := publisher.PublishedEvents()
		if len(published) != 1 || published[0].Name != events.EnrollmentChanged {
			t.Errorf("published events = %v, want one %s", published, events.EnrollmentChanged)
		}
	})

	t.Run("missing course", func(t *testing.T) {
		_, _, service, _ := setup()
		err := service.Reconcile(ctx, 999, []uint{20}, nil)
		if !errors.Is(err, ErrCourseNotFound) {
			t.Errorf("Reconcile() error = %v, want ErrCourseNotFound", err)
		}
	})

	t.Run("overlapping add and remove writes nothing", func(t *testing.T) {
		repo, publisher, service, courseID := setup()

		err := service.Reconcile(ctx, courseID, []uint{20, 21}, []uint{21})
		if !errors.Is(err, ErrEnrollmentConflict) {
			t.Fatalf("Reconcile() error = %v, want ErrEnrollmentConflict", err)
		}

		students, _ := repo.Course().GetStudentIDs(ctx, courseID)
		if len(students) != 0 {
			t.Errorf("enrolled students = %v, want none after rejected batch", students)
		}
		if len(publisher.PublishedEvents()) != 0 {
			t.Error("no event should be published for a rejected batch")
		}
	})

	t.Run("unknown user in batch", func(t *testing.T) {
		_, _, service, courseID := setup()
		err := service.Reconcile(ctx, courseID, []uint{999}, nil)
		if !errors.Is(err, ErrEnrollmentConflict) {
			t.Errorf("Reconcile() error = %v, want ErrEnrollmentConflict", err)
		}
	})

	t.Run("non-student in batch", func(t *testing.T) {
		repo, _, service, courseID := setup()

		err := service.Reconcile(ctx, courseID, []uint{10}, nil)
		if !errors.Is(err, ErrEnrollmentConflict) {
			t.Errorf("add instructor: error = %v, want ErrEnrollmentConflict", err)
		}

		// Non-students in the remove set violate the batch too.
		err = service.Reconcile(ctx, courseID, nil, []uint{10})
		if !errors.Is(err, ErrEnrollmentConflict) {
			t.Errorf("remove instructor: error = %v, want ErrEnrollmentConflict", err)
		}

		students, _ := repo.Course().GetStudentIDs(ctx, courseID)
		if len(students) != 0 {
			t.Errorf("enrolled students = %v, want none", students)
		}
	})

	t.Run("idempotent re-add and absent remove", func(t *testing.T) {
		repo, _, service, courseID := setup()
		if err := repo.Course().AddStudents(ctx, courseID, []uint{20}); err != nil {
			t.Fatal(err)
		}

		// 20 already enrolled, 21 not enrolled; both are no-ops.
		if err := service.Reconcile(ctx, courseID, []uint{20}, []uint{21}); err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}

		students, _ := repo.Course().GetStudentIDs(ctx, courseID)
		if len(students) != 1 || students[0] != 20 {
			t.Errorf("enrolled students = %v, want [20]", students)
		}
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		_, publisher, service, courseID := setup()
		if err := service.Reconcile(ctx, courseID, nil, nil); err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}
		if len(publisher.PublishedEvents()) != 1 {
			t.Error("expected the change event even for an empty batch")
		}
	})
}
