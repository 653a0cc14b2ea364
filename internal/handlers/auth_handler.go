package handlers

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/caresync-app/caresync-api/internal/apperr"
	"github.com/caresync-app/caresync-api/internal/config"
	"github.com/caresync-app/caresync-api/internal/domain/account"
	"github.com/caresync-app/caresync-api/internal/mailer"
	"github.com/caresync-app/caresync-api/internal/models"
	"github.com/caresync-app/caresync-api/internal/validators"
)

const resetTokenTTL = 10 * time.Minute

type AuthHandler struct {
	accounts account.Store
	mail     mailer.Sender
	config   *config.Config
	log      *logrus.Logger
}

func NewAuthHandler(
	accounts account.Store,
	mail mailer.Sender,
	cfg *config.Config,
	log *logrus.Logger,
) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		mail:     mail,
		config:   cfg,
		log:      log,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Age      int    `json:"age" binding:"omitempty,min=0"`
	Gender   string `json:"gender" binding:"omitempty,oneof=Male Female Other"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if !validators.IsEmailDomainValid(email) {
		apperr.BadRequest(c, "invalid_email_domain", "The email domain does not look valid.")
		return
	}

	// One email namespace across patients, doctors and the admin.
	if _, err := h.accounts.FindByEmail(c.Request.Context(), email); err == nil {
		apperr.BadRequest(c, "email_already_exists", "Email already registered.")
		return
	}
	if h.config.HasAdmin() && email == validators.NormalizeEmail(h.config.AdminEmail) {
		apperr.BadRequest(c, "email_already_exists", "Email already registered.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		apperr.Internal(c, "failed_to_hash_password", "Could not process password.")
		return
	}

	patient := models.Patient{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Address:      req.Address,
		Age:          req.Age,
		Gender:       req.Gender,
	}

	if err := h.accounts.CreatePatient(c.Request.Context(), &patient); err != nil {
		apperr.WriteError(c, err)
		return
	}

	token, err := h.generateToken(patient.ID, account.RolePatient)
	if err != nil {
		apperr.Internal(c, "failed_to_generate_token", "Could not issue token.")
		return
	}

	c.JSON(201, gin.H{
		"user": gin.H{
			"id":    patient.ID,
			"name":  patient.Name,
			"email": patient.Email,
			"role":  account.RolePatient,
		},
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := validators.NormalizeEmail(req.Email)

	// Config-backed admin shares the login path with stored accounts.
	if h.config.HasAdmin() && email == validators.NormalizeEmail(h.config.AdminEmail) {
		if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.config.AdminPassword)) != 1 {
			apperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
			return
		}

		token, err := h.generateToken(0, account.RoleAdmin)
		if err != nil {
			apperr.Internal(c, "failed_to_generate_token", "Could not issue token.")
			return
		}
		c.JSON(200, gin.H{
			"user":  gin.H{"email": email, "role": account.RoleAdmin},
			"token": token,
		})
		return
	}

	acct, err := h.accounts.FindByEmail(c.Request.Context(), email)
	if err != nil {
		apperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash()), []byte(req.Password)); err != nil {
		apperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	token, err := h.generateToken(acct.ID(), acct.Role)
	if err != nil {
		apperr.Internal(c, "failed_to_generate_token", "Could not issue token.")
		return
	}

	c.JSON(200, gin.H{
		"user": gin.H{
			"id":    acct.ID(),
			"name":  acct.Name(),
			"email": acct.Email(),
			"role":  acct.Role,
		},
		"token": token,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	// Tokens are stateless; the client drops its copy.
	c.JSON(200, gin.H{"message": "Logged out successfully."})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := validators.NormalizeEmail(req.Email)
	acct, err := h.accounts.FindByEmail(c.Request.Context(), email)
	if err != nil {
		apperr.WriteError(c, err)
		return
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		apperr.Internal(c, "failed_to_generate_token", "Could not generate reset token.")
		return
	}
	token := hex.EncodeToString(raw)
	hash := sha256.Sum256([]byte(token))

	expire := time.Now().Add(resetTokenTTL)
	switch acct.Role {
	case account.RolePatient:
		acct.Patient.ResetTokenHash = hex.EncodeToString(hash[:])
		acct.Patient.ResetTokenExpire = &expire
		err = h.accounts.SavePatient(c.Request.Context(), acct.Patient)
	case account.RoleDoctor:
		acct.Doctor.ResetTokenHash = hex.EncodeToString(hash[:])
		acct.Doctor.ResetTokenExpire = &expire
		err = h.accounts.SaveDoctor(c.Request.Context(), acct.Doctor)
	}
	if err != nil {
		apperr.Internal(c, "failed_to_save_token", "Could not store reset token.")
		return
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", h.config.FrontendURL, token)
	body := fmt.Sprintf(`
      <h2>Password Reset Request</h2>
      <p>Click the link below to reset your password:</p>
      <a href="%s" target="_blank">%s</a>
      <p>This link is valid for 10 minutes.</p>
    `, resetURL, resetURL)

	// The token is already stored; a mail outage must not roll it back,
	// but the caller should learn delivery did not happen.
	if err := h.mail.Send(c.Request.Context(), email, "Password Reset Instructions", body); err != nil {
		h.log.WithError(err).WithField("email", email).Warn("reset email delivery failed")
		c.JSON(200, gin.H{
			"message":    "Reset token created, but the email could not be delivered. Try again later.",
			"email_sent": false,
		})
		return
	}

	c.JSON(200, gin.H{
		"message":    "Password reset email sent successfully.",
		"email_sent": true,
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	token := c.Param("token")

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	hash := sha256.Sum256([]byte(token))
	acct, err := h.accounts.FindByResetTokenHash(
		c.Request.Context(),
		hex.EncodeToString(hash[:]),
		time.Now(),
	)
	if err != nil {
		apperr.WriteError(c, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		apperr.Internal(c, "failed_to_hash_password", "Could not process password.")
		return
	}

	switch acct.Role {
	case account.RolePatient:
		acct.Patient.PasswordHash = string(hashed)
		acct.Patient.ResetTokenHash = ""
		acct.Patient.ResetTokenExpire = nil
		err = h.accounts.SavePatient(c.Request.Context(), acct.Patient)
	case account.RoleDoctor:
		acct.Doctor.PasswordHash = string(hashed)
		acct.Doctor.ResetTokenHash = ""
		acct.Doctor.ResetTokenExpire = nil
		err = h.accounts.SaveDoctor(c.Request.Context(), acct.Doctor)
	}
	if err != nil {
		apperr.Internal(c, "failed_to_save_password", "Could not update password.")
		return
	}

	c.JSON(200, gin.H{"message": "Password reset successful. You can now log in."})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(id uint, role account.Role) (string, error) {
	claims := jwt.MapClaims{
		"sub":  id,
		"role": string(role),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
