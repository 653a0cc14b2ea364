package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/caresync-app/caresync-api/internal/apperr"
	"github.com/caresync-app/caresync-api/internal/audit"
	"github.com/caresync-app/caresync-api/internal/domain/account"
	"github.com/caresync-app/caresync-api/internal/httpresp"
	"github.com/caresync-app/caresync-api/internal/imagestore"
	"github.com/caresync-app/caresync-api/internal/middleware"
	ucAccounts "github.com/caresync-app/caresync-api/internal/usecase/accounts"
)

// MeHandler serves the authenticated account's own profile, for patients
// and doctors alike.
type MeHandler struct {
	accounts account.Store
	images   imagestore.Store
	deleteUC *ucAccounts.DeleteAccount
	audit    *audit.Dispatcher
	log      *logrus.Logger
}

func NewMeHandler(
	accounts account.Store,
	images imagestore.Store,
	deleteUC *ucAccounts.DeleteAccount,
	audit *audit.Dispatcher,
	log *logrus.Logger,
) *MeHandler {
	return &MeHandler{
		accounts: accounts,
		images:   images,
		deleteUC: deleteUC,
		audit:    audit,
		log:      log,
	}
}

type UpdateProfileRequest struct {
	Name     *string `form:"name" binding:"omitempty,min=3"`
	Phone    *string `form:"phone"`
	Address  *string `form:"address"`
	Age      *int    `form:"age" binding:"omitempty,min=0"`
	Gender   *string `form:"gender" binding:"omitempty,oneof=Male Female Other"`
	Password *string `form:"password" binding:"omitempty,min=6"`
}

func (h *MeHandler) Get(c *gin.Context) {
	callerID, callerRole := middleware.Caller(c)

	if callerRole == account.RoleAdmin {
		httpresp.OK(c, gin.H{"role": account.RoleAdmin})
		return
	}

	acct, err := h.accounts.FindByID(c.Request.Context(), callerRole, callerID)
	if err != nil {
		apperr.WriteError(c, err)
		return
	}

	switch acct.Role {
	case account.RolePatient:
		httpresp.OK(c, acct.Patient)
	case account.RoleDoctor:
		httpresp.OK(c, acct.Doctor)
	}
}

// Update edits the patient profile. Doctors use their own route, which
// exposes the doctor-only fields.
func (h *MeHandler) Update(c *gin.Context) {
	callerID, callerRole := middleware.Caller(c)
	if callerRole != account.RolePatient {
		apperr.ForbiddenResp(c, "forbidden", "Use the doctor profile route.")
		return
	}

	patient, err := h.accounts.FindPatientByID(c.Request.Context(), callerID)
	if err != nil {
		apperr.WriteError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		apperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.Age != nil {
		patient.Age = *req.Age
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			apperr.Internal(c, "failed_to_hash_password", "Could not process password.")
			return
		}
		patient.PasswordHash = string(hashed)
	}

	if file, err := c.FormFile("image"); err == nil {
		f, err := file.Open()
		if err != nil {
			apperr.BadRequest(c, "invalid_image", "Could not read uploaded image.")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			apperr.BadRequest(c, "invalid_image", "Could not read uploaded image.")
			return
		}

		oldKey := patient.ImageKey
		uploaded, err := h.images.Upload(c.Request.Context(), data)
		if err != nil {
			apperr.WriteError(c, err)
			return
		}
		patient.ImageURL = uploaded.URL
		patient.ImageKey = uploaded.Key
		if oldKey != "" {
			if delErr := h.images.Delete(c.Request.Context(), oldKey); delErr != nil {
				h.log.WithError(delErr).WithField("key", oldKey).Warn("orphaned profile image")
			}
		}
	}

	if err := h.accounts.SavePatient(c.Request.Context(), patient); err != nil {
		apperr.Internal(c, "failed_to_update_profile", "Could not update profile.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:   &callerID,
		ActorRole: string(callerRole),
		Action:    "profile_updated",
		Entity:    "patient",
		EntityID:  &patient.ID,
	})

	httpresp.OK(c, patient)
}

// Delete removes the caller's own account and cascades its appointments.
func (h *MeHandler) Delete(c *gin.Context) {
	callerID, callerRole := middleware.Caller(c)

	if callerRole == account.RoleAdmin {
		apperr.BadRequest(c, "invalid_request", "The admin identity is configured, not stored.")
		return
	}

	if err := h.deleteUC.Execute(
		c.Request.Context(),
		callerRole, callerID,
		callerRole, callerID,
	); err != nil {
		apperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"message": "Account deleted successfully."})
}
