package handlers

import (
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/caresync-app/caresync-api/internal/apperr"
	"github.com/caresync-app/caresync-api/internal/audit"
	"github.com/caresync-app/caresync-api/internal/domain/account"
	"github.com/caresync-app/caresync-api/internal/httpresp"
	"github.com/caresync-app/caresync-api/internal/imagestore"
	"github.com/caresync-app/caresync-api/internal/middleware"
	"github.com/caresync-app/caresync-api/internal/models"
	"github.com/caresync-app/caresync-api/internal/policy"
	ucAccounts "github.com/caresync-app/caresync-api/internal/usecase/accounts"
	"github.com/caresync-app/caresync-api/internal/validators"
)

type DoctorHandler struct {
	accounts account.Store
	images   imagestore.Store
	deleteUC *ucAccounts.DeleteAccount
	audit    *audit.Dispatcher
	log      *logrus.Logger
}

func NewDoctorHandler(
	accounts account.Store,
	images imagestore.Store,
	deleteUC *ucAccounts.DeleteAccount,
	audit *audit.Dispatcher,
	log *logrus.Logger,
) *DoctorHandler {
	return &DoctorHandler{
		accounts: accounts,
		images:   images,
		deleteUC: deleteUC,
		audit:    audit,
		log:      log,
	}
}

// --------- Requests ---------

type AddDoctorRequest struct {
	Name         string `form:"name" binding:"required"`
	Email        string `form:"email" binding:"required,email"`
	Password     string `form:"password" binding:"required,min=6"`
	Speciality   string `form:"speciality" binding:"required"`
	Degree       string `form:"degree" binding:"required"`
	Experience   int    `form:"experience" binding:"min=0"`
	Fees         int64  `form:"fees" binding:"required,min=0"`
	About        string `form:"about" binding:"max=2000"`
	Phone        string `form:"phone"`
	AddressLine1 string `form:"address_line1"`
	AddressLine2 string `form:"address_line2"`
}

type UpdateDoctorRequest struct {
	Name         *string `form:"name"`
	Speciality   *string `form:"speciality"`
	Degree       *string `form:"degree"`
	Experience   *int    `form:"experience" binding:"omitempty,min=0"`
	Fees         *int64  `form:"fees" binding:"omitempty,min=0"`
	About        *string `form:"about" binding:"omitempty,max=2000"`
	Phone        *string `form:"phone"`
	AddressLine1 *string `form:"address_line1"`
	AddressLine2 *string `form:"address_line2"`
	Available    *bool   `form:"available"`
	Password     *string `form:"password" binding:"omitempty,min=6"`
}

// --------- Public directory ---------

func (h *DoctorHandler) List(c *gin.Context) {
	doctors, err := h.accounts.ListDoctors(c.Request.Context())
	if err != nil {
		apperr.Internal(c, "failed_to_list_doctors", "Could not list doctors.")
		return
	}
	httpresp.List(c, doctors)
}

func (h *DoctorHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		apperr.BadRequest(c, "invalid_id", "Invalid doctor id.")
		return
	}

	doctor, err := h.accounts.FindDoctorByID(c.Request.Context(), id)
	if err != nil {
		apperr.WriteError(c, err)
		return
	}
	httpresp.OK(c, doctor)
}

// --------- Admin management ---------

func (h *DoctorHandler) Add(c *gin.Context) {
	callerID, callerRole := middleware.Caller(c)

	var req AddDoctorRequest
	if err := c.ShouldBind(&req); err != nil {
		apperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if _, err := h.accounts.FindByEmail(c.Request.Context(), email); err == nil {
		apperr.BadRequest(c, "email_already_exists", "Email already registered.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		apperr.Internal(c, "failed_to_hash_password", "Could not process password.")
		return
	}

	doctor := models.Doctor{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Speciality:   req.Speciality,
		Degree:       req.Degree,
		Experience:   req.Experience,
		Fees:         req.Fees,
		About:        req.About,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		Available:    true,
	}

	var uploaded imagestore.Stored
	if file, err := c.FormFile("image"); err == nil {
		uploaded, err = h.uploadImage(c, file)
		if err != nil {
			apperr.WriteError(c, err)
			return
		}
		doctor.ImageURL = uploaded.URL
		doctor.ImageKey = uploaded.Key
	}

	if err := h.accounts.CreateDoctor(c.Request.Context(), &doctor); err != nil {
		// Creation failed after the object store write: roll the image back.
		if uploaded.Key != "" {
			if delErr := h.images.Delete(c.Request.Context(), uploaded.Key); delErr != nil {
				h.log.WithError(delErr).WithField("key", uploaded.Key).Warn("orphaned profile image")
			}
		}
		apperr.WriteError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:   &callerID,
		ActorRole: string(callerRole),
		Action:    "doctor_added",
		Entity:    "doctor",
		EntityID:  &doctor.ID,
	})

	httpresp.Created(c, doctor)
}

func (h *DoctorHandler) Update(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		apperr.BadRequest(c, "invalid_id", "Invalid doctor id.")
		return
	}
	h.update(c, id)
}

// UpdateMe is the doctor's own-profile route; the target is the caller.
func (h *DoctorHandler) UpdateMe(c *gin.Context) {
	callerID, _ := middleware.Caller(c)
	h.update(c, callerID)
}

func (h *DoctorHandler) update(c *gin.Context, id uint) {
	callerID, callerRole := middleware.Caller(c)

	if err := policy.CanManageAccount(callerRole, callerID, account.RoleDoctor, id); err != nil {
		apperr.WriteError(c, err)
		return
	}

	doctor, err := h.accounts.FindDoctorByID(c.Request.Context(), id)
	if err != nil {
		apperr.WriteError(c, err)
		return
	}

	var req UpdateDoctorRequest
	if err := c.ShouldBind(&req); err != nil {
		apperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Speciality != nil {
		doctor.Speciality = *req.Speciality
	}
	if req.Degree != nil {
		doctor.Degree = *req.Degree
	}
	if req.Experience != nil {
		doctor.Experience = *req.Experience
	}
	if req.Fees != nil {
		doctor.Fees = *req.Fees
	}
	if req.About != nil {
		doctor.About = *req.About
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.AddressLine1 != nil {
		doctor.AddressLine1 = *req.AddressLine1
	}
	if req.AddressLine2 != nil {
		doctor.AddressLine2 = *req.AddressLine2
	}
	if req.Available != nil {
		doctor.Available = *req.Available
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			apperr.Internal(c, "failed_to_hash_password", "Could not process password.")
			return
		}
		doctor.PasswordHash = string(hashed)
	}

	if file, err := c.FormFile("image"); err == nil {
		oldKey := doctor.ImageKey
		uploaded, err := h.uploadImage(c, file)
		if err != nil {
			apperr.WriteError(c, err)
			return
		}
		doctor.ImageURL = uploaded.URL
		doctor.ImageKey = uploaded.Key
		if oldKey != "" {
			if delErr := h.images.Delete(c.Request.Context(), oldKey); delErr != nil {
				h.log.WithError(delErr).WithField("key", oldKey).Warn("orphaned profile image")
			}
		}
	}

	if err := h.accounts.SaveDoctor(c.Request.Context(), doctor); err != nil {
		apperr.Internal(c, "failed_to_update_doctor", "Could not update doctor.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:   &callerID,
		ActorRole: string(callerRole),
		Action:    "doctor_updated",
		Entity:    "doctor",
		EntityID:  &doctor.ID,
	})

	httpresp.OK(c, doctor)
}

func (h *DoctorHandler) Delete(c *gin.Context) {
	callerID, callerRole := middleware.Caller(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		apperr.BadRequest(c, "invalid_id", "Invalid doctor id.")
		return
	}

	if err := h.deleteUC.Execute(
		c.Request.Context(),
		callerRole, callerID,
		account.RoleDoctor, id,
	); err != nil {
		apperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"message": "Doctor deleted successfully."})
}

// --------- Helpers ---------

func (h *DoctorHandler) uploadImage(c *gin.Context, file *multipart.FileHeader) (imagestore.Stored, error) {
	f, err := file.Open()
	if err != nil {
		return imagestore.Stored{}, apperr.Validation("could not read uploaded image")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return imagestore.Stored{}, apperr.Validation("could not read uploaded image")
	}

	return h.images.Upload(c.Request.Context(), data)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid id")
	}
	return uint(id), nil
}
