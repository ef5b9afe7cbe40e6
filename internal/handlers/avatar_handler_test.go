package handlers

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/tarpaulin-edu/course-service/internal/models"
	"github.com/tarpaulin-edu/course-service/internal/services"
)

var pngFixture = append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, []byte("image bits")...)

func newAvatarEnv() *testEnv {
	selfOnly := func(actor *models.User, userID uint) error {
		if actor == nil {
			return services.ErrUnauthenticated
		}
		if actor.ID != userID {
			return services.ErrForbidden
		}
		return nil
	}

	stored := map[uint][]byte{}

	sm := &stubServiceManager{
		course: &stubCourseService{},
		user: &stubUserService{
			getAvatarFn: func(actor *models.User, userID uint) ([]byte, error) {
				if err := selfOnly(actor, userID); err != nil {
					return nil, err
				}
				data, ok := stored[userID]
				if !ok {
					return nil, services.ErrAvatarNotFound
				}
				return data, nil
			},
			uploadAvatarFn: func(actor *models.User, userID uint, data []byte) error {
				if err := selfOnly(actor, userID); err != nil {
					return err
				}
				if !bytes.HasPrefix(data, pngFixture[:8]) {
					return services.ErrInvalidAvatar
				}
				stored[userID] = data
				return nil
			},
			deleteAvatarFn: func(actor *models.User, userID uint) error {
				if err := selfOnly(actor, userID); err != nil {
					return err
				}
				if _, ok := stored[userID]; !ok {
					return services.ErrAvatarNotFound
				}
				delete(stored, userID)
				return nil
			},
		},
		roster: &stubRosterService{},
	}
	return newTestEnv(sm)
}

func TestAvatarEndpoints(t *testing.T) {
	env := newAvatarEnv()

	t.Run("upload then fetch as owner", func(t *testing.T) {
		w := env.do(http.MethodPost, "/users/20/avatar", "student-token", bytes.NewReader(pngFixture))
		if w.Code != http.StatusOK {
			t.Fatalf("upload status = %d, want 200, body %s", w.Code, w.Body.String())
		}

		w = env.do(http.MethodGet, "/users/20/avatar", "student-token", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("get status = %d, want 200", w.Code)
		}
		if got := w.Header().Get("Content-Type"); got != "image/png" {
			t.Errorf("Content-Type = %q, want image/png", got)
		}
		if !bytes.Equal(w.Body.Bytes(), pngFixture) {
			t.Error("served avatar differs from upload")
		}
	})

	t.Run("admin has no override", func(t *testing.T) {
		w := env.do(http.MethodGet, "/users/20/avatar", "admin-token", nil)
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
		w = env.do(http.MethodDelete, "/users/20/avatar", "admin-token", nil)
		if w.Code != http.StatusForbidden {
			t.Errorf("delete status = %d, want 403", w.Code)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		w := env.do(http.MethodGet, "/users/20/avatar", "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("non-png rejected", func(t *testing.T) {
		w := env.do(http.MethodPost, "/users/20/avatar", "student-token",
			bytes.NewBufferString("GIF89a definitely not png"))
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("delete then missing", func(t *testing.T) {
		env := newAvatarEnv()
		w := env.do(http.MethodPost, "/users/20/avatar", "student-token", bytes.NewReader(pngFixture))
		if w.Code != http.StatusOK {
			t.Fatal("seed upload failed")
		}

		w = env.do(http.MethodDelete, "/users/20/avatar", "student-token", nil)
		if w.Code != http.StatusNoContent {
			t.Fatalf("delete status = %d, want 204", w.Code)
		}

		w = env.do(http.MethodGet, "/users/20/avatar", "student-token", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("get after delete status = %d, want 404", w.Code)
		}
	})
}
