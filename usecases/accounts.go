package usecases

import (
	"errors"
	"fmt"
	"time"
	"unicode"

	"clairity-server/cache"
	"clairity-server/entities"
	"clairity-server/mailer"
	"clairity-server/repositories"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = time.Hour

type AccountUseCase struct {
	Repo      repositories.UserRepository
	Codes     *cache.VerificationStore
	Mail      mailer.Transport
	jwtSecret []byte
}

func NewAccountUseCase(repo repositories.UserRepository, codes *cache.VerificationStore, mail mailer.Transport, jwtSecret string) *AccountUseCase {
	return &AccountUseCase{
		Repo:      repo,
		Codes:     codes,
		Mail:      mail,
		jwtSecret: []byte(jwtSecret),
	}
}

// validatePassword enforces the signup policy: at least 8 characters with
// an upper, a lower, a digit, and a symbol.
func validatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

var errWeakPassword = fmt.Errorf("%w: password must be at least 8 characters with an uppercase letter, a lowercase letter, a digit, and a symbol", ErrValidation)

// SendCode issues a verification code to any address, subject to the
// resend cooldown.
func (uc *AccountUseCase) SendCode(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}

	code := mailer.GenerateVerificationCode()
	if retryAfter, ok := uc.Codes.Put(email, code); !ok {
		return fmt.Errorf("%w: wait %d seconds before requesting another code", ErrConflict, int(retryAfter.Seconds())+1)
	}

	return mailer.SendVerificationCode(uc.Mail, email, code)
}

// SendCodeExistingUser is the reset-password variant: the address must
// belong to a registered account.
func (uc *AccountUseCase) SendCodeExistingUser(email string) error {
	if _, err := uc.getByEmail(email); err != nil {
		return err
	}
	return uc.SendCode(email)
}

// Register creates an account pending email verification. The code is
// mailed before the row is written so a dead mail provider never leaves
// an unverifiable account behind. The very first account registered gets
// the admin role; every later one is a regular user.
func (uc *AccountUseCase) Register(name, email, password string) (*entities.User, error) {
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrValidation)
	}
	if !validatePassword(password) {
		return nil, errWeakPassword
	}

	if _, err := uc.Repo.GetByEmail(email); err == nil {
		return nil, fmt.Errorf("%w: email is already registered", ErrConflict)
	}

	existing, err := uc.Repo.Count()
	if err != nil {
		return nil, err
	}
	role := entities.RoleUser
	if existing == 0 {
		role = entities.RoleAdmin
	}

	code := mailer.GenerateVerificationCode()
	if err := mailer.SendVerificationCode(uc.Mail, email, code); err != nil {
		return nil, fmt.Errorf("send verification code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Name:             name,
		Email:            email,
		PasswordHash:     string(hash),
		Role:             role,
		Status:           entities.StatusInactive,
		VerificationCode: code,
	}
	if err := uc.Repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyEmail activates a pending account when the code matches either
// the one stored at registration or a code re-issued through SendCode,
// so a lost signup mail does not strand the account. A mismatch mutates
// nothing.
func (uc *AccountUseCase) VerifyEmail(email, code string) error {
	user, err := uc.getByEmail(email)
	if err != nil {
		return err
	}
	if code == "" {
		return fmt.Errorf("%w: incorrect verification code", ErrValidation)
	}
	if user.VerificationCode != code && !uc.Codes.Consume(email, code) {
		return fmt.Errorf("%w: incorrect verification code", ErrValidation)
	}

	user.Status = entities.StatusActive
	user.VerificationCode = ""
	return uc.Repo.Update(user)
}

// Login authenticates and opens the account's single session, returning a
// one-hour bearer token. The session check-then-set is not atomic against
// a concurrent login for the same account; no row lock is taken.
func (uc *AccountUseCase) Login(email, password string) (string, *entities.User, error) {
	user, err := uc.Repo.GetByEmail(email)
	if err != nil {
		return "", nil, fmt.Errorf("%w: wrong email or password", ErrAuth)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, fmt.Errorf("%w: wrong email or password", ErrAuth)
	}
	if user.Status != entities.StatusActive {
		return "", nil, fmt.Errorf("%w: account is inactive, verify your email first", ErrForbidden)
	}
	if user.Session == entities.SessionActive {
		return "", nil, fmt.Errorf("%w: a session is already active for this user", ErrConflict)
	}

	user.Session = entities.SessionActive
	if err := uc.Repo.Update(user); err != nil {
		return "", nil, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": user.ID,
		"type":   user.Role,
		"exp":    time.Now().Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", nil, err
	}
	return signed, user, nil
}

// Logout closes the account's session.
func (uc *AccountUseCase) Logout(userID string) error {
	user, err := uc.getByID(userID)
	if err != nil {
		return err
	}
	user.Session = entities.SessionInactive
	return uc.Repo.Update(user)
}

// ResetPassword sets a new password after checking a verification code
// issued via SendCodeExistingUser. The code is only consumed once the
// password actually changes; a rejected password leaves it usable for a
// retry.
func (uc *AccountUseCase) ResetPassword(email, code, newPassword string) error {
	if !uc.Codes.Match(email, code) {
		return fmt.Errorf("%w: invalid or expired verification code", ErrValidation)
	}
	if !validatePassword(newPassword) {
		return errWeakPassword
	}

	user, err := uc.getByEmail(email)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	if err := uc.Repo.Update(user); err != nil {
		return err
	}
	uc.Codes.Consume(email, code)
	return nil
}

type ProfileUpdate struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirmPassword"`
	VerificationCode string `json:"verificationCode"`
}

// UpdateProfile mutates the caller's own record. Name changes are
// unconditional; an email change must carry a fresh code for the new
// address; a password change must confirm-match and satisfy policy.
func (uc *AccountUseCase) UpdateProfile(userID string, req ProfileUpdate) error {
	user, err := uc.getByID(userID)
	if err != nil {
		return err
	}

	if req.Name != "" {
		user.Name = req.Name
	}

	if req.Email != "" && req.Email != user.Email {
		if !uc.Codes.Consume(req.Email, req.VerificationCode) {
			return fmt.Errorf("%w: invalid or expired verification code", ErrValidation)
		}
		user.Email = req.Email
	}

	if req.Password != "" {
		if req.Password != req.ConfirmPassword {
			return fmt.Errorf("%w: passwords do not match", ErrValidation)
		}
		if !validatePassword(req.Password) {
			return errWeakPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user.PasswordHash = string(hash)
	}

	return uc.Repo.Update(user)
}

// Profile returns a user by ID.
func (uc *AccountUseCase) Profile(userID string) (*entities.User, error) {
	return uc.getByID(userID)
}

// List returns every account, or only those whose name or email contains
// the search term (case-insensitive) when one is given.
func (uc *AccountUseCase) List(search string) ([]entities.User, error) {
	if search == "" {
		return uc.Repo.GetAll()
	}
	return uc.Repo.Search(search)
}

// Subscribers returns the accounts with the alert flag on.
func (uc *AccountUseCase) Subscribers() ([]entities.User, error) {
	return uc.Repo.GetSubscribed()
}

type AdminUpdate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Update is the admin-mediated profile mutation; no verification code is
// involved.
func (uc *AccountUseCase) Update(id string, req AdminUpdate) error {
	user, err := uc.getByID(id)
	if err != nil {
		return err
	}
	if req.Password != "" {
		if !validatePassword(req.Password) {
			return errWeakPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user.PasswordHash = string(hash)
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	return uc.Repo.Update(user)
}

// Delete removes an account.
func (uc *AccountUseCase) Delete(id string) error {
	if _, err := uc.getByID(id); err != nil {
		return err
	}
	return uc.Repo.Delete(id)
}

// Activate flips the account status to active.
func (uc *AccountUseCase) Activate(id string) error {
	return uc.setStatus(id, entities.StatusActive)
}

// Deactivate flips the account status to inactive, blocking login.
func (uc *AccountUseCase) Deactivate(id string) error {
	return uc.setStatus(id, entities.StatusInactive)
}

func (uc *AccountUseCase) setStatus(id, status string) error {
	user, err := uc.getByID(id)
	if err != nil {
		return err
	}
	user.Status = status
	return uc.Repo.Update(user)
}

// ToggleAlerts sets the alert-subscription flag.
func (uc *AccountUseCase) ToggleAlerts(id string, on bool) error {
	user, err := uc.getByID(id)
	if err != nil {
		return err
	}
	user.Alerts = on
	return uc.Repo.Update(user)
}

func (uc *AccountUseCase) getByID(id string) (*entities.User, error) {
	user, err := uc.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (uc *AccountUseCase) getByEmail(email string) (*entities.User, error) {
	user, err := uc.Repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}
