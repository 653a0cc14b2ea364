package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/caresync-app/caresync-api/internal/apperr"
	"github.com/caresync-app/caresync-api/internal/domain/account"
	"github.com/caresync-app/caresync-api/internal/httpresp"
	"github.com/caresync-app/caresync-api/internal/middleware"
	ucAccounts "github.com/caresync-app/caresync-api/internal/usecase/accounts"
)

// AdminHandler covers admin-only account views. Appointment-wide views
// reuse the appointment handler, whose policy already grants admins
// everything.
type AdminHandler struct {
	accounts account.Store
	deleteUC *ucAccounts.DeleteAccount
}

func NewAdminHandler(accounts account.Store, deleteUC *ucAccounts.DeleteAccount) *AdminHandler {
	return &AdminHandler{accounts: accounts, deleteUC: deleteUC}
}

func (h *AdminHandler) ListPatients(c *gin.Context) {
	patients, err := h.accounts.ListPatients(c.Request.Context())
	if err != nil {
		apperr.Internal(c, "failed_to_list_patients", "Could not list patients.")
		return
	}
	httpresp.List(c, patients)
}

func (h *AdminHandler) GetPatient(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		apperr.BadRequest(c, "invalid_id", "Invalid patient id.")
		return
	}

	patient, err := h.accounts.FindPatientByID(c.Request.Context(), id)
	if err != nil {
		apperr.WriteError(c, err)
		return
	}
	httpresp.OK(c, patient)
}

func (h *AdminHandler) DeletePatient(c *gin.Context) {
	callerID, callerRole := middleware.Caller(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		apperr.BadRequest(c, "invalid_id", "Invalid patient id.")
		return
	}

	if err := h.deleteUC.Execute(
		c.Request.Context(),
		callerRole, callerID,
		account.RolePatient, id,
	); err != nil {
		apperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"message": "Patient deleted successfully."})
}
