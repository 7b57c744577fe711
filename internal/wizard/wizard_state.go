package wizard

import (
	"sync"
	"time"

	"github.com/hzqula/portal-gateway/internal/backend"
	"github.com/hzqula/portal-gateway/internal/clock"
)

type Step int

const (
	StepEmail Step = iota + 1
	StepOTP
	StepDetails
	StepComplete
)

type Role string

const (
	RoleStudent  Role = "STUDENT"
	RoleLecturer Role = "LECTURER"
	RoleUnknown  Role = "UNKNOWN"
)

// Draft dibangun bertahap lintas step. Field tetap tersimpan saat user
// mundur; hanya completion flag yang direset.
type Draft struct {
	Email           string
	OTPCode         string
	Name            string
	NIM             string
	NIP             string
	PhoneNumber     string
	Password        string
	ConfirmPassword string
	Picture         *backend.Picture
}

// state adalah WizardState milik satu portal session. Semua akses lewat
// mutex; network call tidak pernah dilakukan sambil memegang lock.
type state struct {
	mu sync.Mutex

	step           Step
	draft          Draft
	emailConfirmed bool
	otpConfirmed   bool

	// resendReadyAt: deadline cooldown. Sisa detik dihitung dari jam,
	// bukan dari ticker, tapi perilakunya tetap 60 -> 0 sekali per detik.
	resendReadyAt time.Time

	// inFlight per call site, mencegah submit ganda untuk step yang sama.
	inFlight map[string]bool

	// epoch naik setiap kali user mundur atau session dibuang; hasil network
	// call yang membawa epoch lama tidak diterapkan.
	epoch int

	lastSeen time.Time
}

func newState(now time.Time) *state {
	return &state{
		step:     StepEmail,
		inFlight: make(map[string]bool),
		lastSeen: now,
	}
}

func (s *state) cooldownRemaining(now time.Time) int {
	if s.resendReadyAt.IsZero() || !now.Before(s.resendReadyAt) {
		return 0
	}
	remaining := s.resendReadyAt.Sub(now)
	secs := int(remaining / time.Second)
	if remaining%time.Second != 0 {
		secs++
	}
	return secs
}

// sessionTTL: wizard state dibuang kalau tidak disentuh selama ini. Tidak ada
// persistence; meninggalkan halaman = mulai dari awal.
const sessionTTL = 30 * time.Minute

type registry struct {
	mu          sync.Mutex
	states      map[string]*state
	clock       clock.Clock
	lastCleanup time.Time
}

func newRegistry(clk clock.Clock) *registry {
	return &registry{
		states: make(map[string]*state),
		clock:  clk,
	}
}

// get membuat state baru kalau belum ada. Pembersihan state basi ditumpangkan
// di sini supaya tidak perlu goroutine janitor terpisah.
func (r *registry) get(sid string) *state {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	if now.Sub(r.lastCleanup) > time.Minute {
		r.lastCleanup = now
		for key, st := range r.states {
			st.mu.Lock()
			expired := now.Sub(st.lastSeen) > sessionTTL
			if expired {
				st.epoch++ // hasil in-flight milik session lama dibuang
			}
			st.mu.Unlock()
			if expired {
				delete(r.states, key)
			}
		}
	}

	st, ok := r.states[sid]
	if !ok {
		st = newState(now)
		r.states[sid] = st
	}

	st.mu.Lock()
	st.lastSeen = now
	st.mu.Unlock()

	return st
}

// drop membuang wizard state satu session (dipakai setelah COMPLETE).
func (r *registry) drop(sid string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if st, ok := r.states[sid]; ok {
		st.mu.Lock()
		st.epoch++
		st.mu.Unlock()
		delete(r.states, sid)
	}
}
