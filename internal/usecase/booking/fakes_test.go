package booking

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/caresync-app/caresync-api/internal/apperr"
	"github.com/caresync-app/caresync-api/internal/audit"
	"github.com/caresync-app/caresync-api/internal/domain/account"
	domain "github.com/caresync-app/caresync-api/internal/domain/booking"
	"github.com/caresync-app/caresync-api/internal/models"
)

// ---------- Audit ----------

type noopSink struct{}

func (noopSink) Log(*uint, string, string, string, *uint, any) error { return nil }

func newTestDispatcher() *audit.Dispatcher {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return audit.NewDispatcher(noopSink{}, log)
}

// ---------- Appointment store ----------

// fakeAppointmentStore mirrors the gorm repository's contract: Create is
// atomic per slot key, holding the lock across the conflict check and
// the insert.
type fakeAppointmentStore struct {
	mu     sync.Mutex
	nextID uint
	items  map[uint]*models.Appointment
}

func newFakeAppointmentStore() *fakeAppointmentStore {
	return &fakeAppointmentStore{items: make(map[uint]*models.Appointment)}
}

func (s *fakeAppointmentStore) Create(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.DoctorID == ap.DoctorID &&
			existing.Date == ap.Date &&
			existing.Time == ap.Time &&
			existing.Status != string(domain.StatusCancelled) {
			return apperr.SlotConflict("slot is already booked")
		}
	}

	s.nextID++
	ap.ID = s.nextID
	ap.CreatedAt = time.Now()
	ap.UpdatedAt = ap.CreatedAt

	cp := *ap
	s.items[ap.ID] = &cp
	return nil
}

func (s *fakeAppointmentStore) GetByID(_ context.Context, id uint) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ap, ok := s.items[id]
	if !ok {
		return nil, apperr.NotFound("appointment not found")
	}
	cp := *ap
	return &cp, nil
}

func (s *fakeAppointmentStore) Save(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[ap.ID]; !ok {
		return apperr.NotFound("appointment not found")
	}
	ap.UpdatedAt = time.Now()
	cp := *ap
	s.items[ap.ID] = &cp
	return nil
}

func (s *fakeAppointmentStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return apperr.NotFound("appointment not found")
	}
	delete(s.items, id)
	return nil
}

func (s *fakeAppointmentStore) List(_ context.Context, f domain.Filter) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Appointment
	for _, ap := range s.items {
		if f.PatientID != 0 && ap.PatientID != f.PatientID {
			continue
		}
		if f.DoctorID != 0 && ap.DoctorID != f.DoctorID {
			continue
		}
		out = append(out, *ap)
	}
	return out, nil
}

func (s *fakeAppointmentStore) BookedSlots(_ context.Context, doctorID uint, fromDate string) ([]domain.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Slot
	for _, ap := range s.items {
		if ap.DoctorID != doctorID {
			continue
		}
		if ap.Status == string(domain.StatusCancelled) {
			continue
		}
		if ap.Date < fromDate {
			continue
		}
		out = append(out, domain.Slot{Date: ap.Date, Time: ap.Time})
	}
	return out, nil
}

// removeByAccount supports the fake account store's cascade.
func (s *fakeAppointmentStore) removeByAccount(role account.Role, id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for apID, ap := range s.items {
		if (role == account.RolePatient && ap.PatientID == id) ||
			(role == account.RoleDoctor && ap.DoctorID == id) {
			delete(s.items, apID)
		}
	}
}

func (s *fakeAppointmentStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

var _ domain.Store = (*fakeAppointmentStore)(nil)

// ---------- Account store ----------

type fakeAccountStore struct {
	mu           sync.Mutex
	patients     map[uint]*models.Patient
	doctors      map[uint]*models.Doctor
	appointments *fakeAppointmentStore
}

func newFakeAccountStore(appointments *fakeAppointmentStore) *fakeAccountStore {
	return &fakeAccountStore{
		patients:     make(map[uint]*models.Patient),
		doctors:      make(map[uint]*models.Doctor),
		appointments: appointments,
	}
}

func (s *fakeAccountStore) addPatient(p models.Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients[p.ID] = &p
}

func (s *fakeAccountStore) addDoctor(d models.Doctor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doctors[d.ID] = &d
}

func (s *fakeAccountStore) FindByEmail(_ context.Context, email string) (account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.patients {
		if p.Email == email {
			cp := *p
			return account.FromPatient(&cp), nil
		}
	}
	for _, d := range s.doctors {
		if d.Email == email {
			cp := *d
			return account.FromDoctor(&cp), nil
		}
	}
	return account.Account{}, apperr.NotFound("account not found")
}

func (s *fakeAccountStore) FindByID(ctx context.Context, role account.Role, id uint) (account.Account, error) {
	switch role {
	case account.RolePatient:
		p, err := s.FindPatientByID(ctx, id)
		if err != nil {
			return account.Account{}, err
		}
		return account.FromPatient(p), nil
	case account.RoleDoctor:
		d, err := s.FindDoctorByID(ctx, id)
		if err != nil {
			return account.Account{}, err
		}
		return account.FromDoctor(d), nil
	}
	return account.Account{}, apperr.NotFound("account not found")
}

func (s *fakeAccountStore) FindByResetTokenHash(_ context.Context, hash string, now time.Time) (account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.patients {
		if p.ResetTokenHash == hash && p.ResetTokenExpire != nil && p.ResetTokenExpire.After(now) {
			cp := *p
			return account.FromPatient(&cp), nil
		}
	}
	for _, d := range s.doctors {
		if d.ResetTokenHash == hash && d.ResetTokenExpire != nil && d.ResetTokenExpire.After(now) {
			cp := *d
			return account.FromDoctor(&cp), nil
		}
	}
	return account.Account{}, apperr.Validation("invalid or expired reset token")
}

func (s *fakeAccountStore) FindPatientByID(_ context.Context, id uint) (*models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.patients[id]
	if !ok {
		return nil, apperr.NotFound("patient not found")
	}
	cp := *p
	return &cp, nil
}

func (s *fakeAccountStore) FindDoctorByID(_ context.Context, id uint) (*models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.doctors[id]
	if !ok {
		return nil, apperr.NotFound("doctor not found")
	}
	cp := *d
	return &cp, nil
}

func (s *fakeAccountStore) CreatePatient(_ context.Context, p *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = uint(len(s.patients) + len(s.doctors) + 1)
	cp := *p
	s.patients[p.ID] = &cp
	return nil
}

func (s *fakeAccountStore) CreateDoctor(_ context.Context, d *models.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = uint(len(s.patients) + len(s.doctors) + 1)
	cp := *d
	s.doctors[d.ID] = &cp
	return nil
}

func (s *fakeAccountStore) SavePatient(_ context.Context, p *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.patients[p.ID] = &cp
	return nil
}

func (s *fakeAccountStore) SaveDoctor(_ context.Context, d *models.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	s.doctors[d.ID] = &cp
	return nil
}

func (s *fakeAccountStore) ListPatients(_ context.Context) ([]models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Patient
	for _, p := range s.patients {
		out = append(out, *p)
	}
	return out, nil
}

func (s *fakeAccountStore) ListDoctors(_ context.Context) ([]models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Doctor
	for _, d := range s.doctors {
		out = append(out, *d)
	}
	return out, nil
}

func (s *fakeAccountStore) DeleteCascade(_ context.Context, role account.Role, id uint) error {
	s.mu.Lock()
	switch role {
	case account.RolePatient:
		if _, ok := s.patients[id]; !ok {
			s.mu.Unlock()
			return apperr.NotFound("account not found")
		}
		delete(s.patients, id)
	case account.RoleDoctor:
		if _, ok := s.doctors[id]; !ok {
			s.mu.Unlock()
			return apperr.NotFound("account not found")
		}
		delete(s.doctors, id)
	default:
		s.mu.Unlock()
		return apperr.NotFound("account not found")
	}
	s.mu.Unlock()

	s.appointments.removeByAccount(role, id)
	return nil
}

var _ account.Store = (*fakeAccountStore)(nil)

// ---------- Shared fixtures ----------

const (
	patientID      = uint(1)
	otherPatientID = uint(2)
	doctorID       = uint(10)
	otherDoctorID  = uint(11)
)

func newFixture() (*fakeAppointmentStore, *fakeAccountStore) {
	appointments := newFakeAppointmentStore()
	accounts := newFakeAccountStore(appointments)

	accounts.addPatient(models.Patient{ID: patientID, Name: "Asha Rao", Email: "asha@example.com"})
	accounts.addPatient(models.Patient{ID: otherPatientID, Name: "Vikram Shah", Email: "vikram@example.com"})
	accounts.addDoctor(models.Doctor{
		ID: doctorID, Name: "Dr. Meera Nair", Email: "meera@example.com",
		Speciality: "Dermatology", Fees: 500, Available: true,
	})
	accounts.addDoctor(models.Doctor{
		ID: otherDoctorID, Name: "Dr. Arjun Iyer", Email: "arjun@example.com",
		Speciality: "Cardiology", Fees: 900, Available: true,
	})

	return appointments, accounts
}
