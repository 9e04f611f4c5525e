package httpHandler

import (
	"sort"
	"strings"
	"sync"
	"time"

	"clairity-server/cache"
	"clairity-server/entities"
	"clairity-server/handlers"
	"clairity-server/usecases"
	"clairity-server/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

type fakeSensorRepo struct {
	mu       sync.Mutex
	readings []entities.SensorReading
}

func (r *fakeSensorRepo) Create(reading *entities.SensorReading) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reading.ID == "" {
		reading.ID = uuid.New().String()
	}
	if reading.Timestamp == "" {
		reading.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	r.readings = append(r.readings, *reading)
	return nil
}

func (r *fakeSensorRepo) Latest(limit int) ([]entities.SensorReading, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sorted := append([]entities.SensorReading(nil), r.readings...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp > sorted[j].Timestamp })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (r *fakeSensorRepo) LatestOne() (*entities.SensorReading, error) {
	latest, err := r.Latest(1)
	if err != nil {
		return nil, err
	}
	if len(latest) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &latest[0], nil
}

func (r *fakeSensorRepo) Range(start, end time.Time, limit int) ([]entities.SensorReading, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.SensorReading
	for _, reading := range r.readings {
		ts, err := time.Parse(time.RFC3339, reading.Timestamp)
		if err != nil {
			continue
		}
		if !ts.Before(start) && !ts.After(end) {
			out = append(out, reading)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeSensorRepo) MarkAlertSent(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.readings {
		if r.readings[i].ID == id {
			r.readings[i].AlertSent = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]entities.User)}
}

func (r *fakeUserRepo) Create(user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = entities.RoleUser
	}
	if user.Status == "" {
		user.Status = entities.StatusActive
	}
	if user.Session == "" {
		user.Session = entities.SessionInactive
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetAll() ([]entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *fakeUserRepo) Search(query string) ([]entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	var out []entities.User
	for _, user := range r.users {
		if strings.Contains(strings.ToLower(user.Name), q) || strings.Contains(strings.ToLower(user.Email), q) {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) GetSubscribed() ([]entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.User
	for _, user := range r.users {
		if user.Alerts {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
	HTML    bool
}

type fakeTransport struct {
	mu   sync.Mutex
	sent []sentMail
}

func (t *fakeTransport) Send(to, subject, body string, html bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, sentMail{To: to, Subject: subject, Body: body, HTML: html})
	return nil
}

func (t *fakeTransport) lastCodeFor(to string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	const prefix = "Your verification code is: "
	for i := len(t.sent) - 1; i >= 0; i-- {
		if t.sent[i].To == to {
			return t.sent[i].Body[len(prefix):]
		}
	}
	return ""
}

type testEnv struct {
	router  *gin.Engine
	sensors *fakeSensorRepo
	users   *fakeUserRepo
	mail    *fakeTransport
}

// newTestEnv wires the full API route table against in-memory fakes.
func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)

	sensorRepo := &fakeSensorRepo{}
	userRepo := newFakeUserRepo()
	mail := &fakeTransport{}
	codes := cache.NewVerificationStore()

	sensorUseCase := usecases.NewSensorUseCase(sensorRepo)
	accountUseCase := usecases.NewAccountUseCase(userRepo, codes, mail, testJWTSecret)

	manager := ws.NewManager()
	sensorHandler := NewSensorHandler(sensorUseCase, manager)
	aqiHandler := NewAQIHandler()
	authHandler := NewAuthHandler(accountUseCase)
	userHandler := NewUserHandler(accountUseCase)

	authRequired := handlers.AuthMiddleware(testJWTSecret)

	router := gin.New()
	api := router.Group("/api/v1")
	{
		sensors := api.Group("/sensors")
		{
			sensors.POST("", sensorHandler.CreateReading)
			sensors.GET("/latest", sensorHandler.GetLatest)
			sensors.GET("/history", sensorHandler.GetHistory)
			sensors.GET("/history/summary", sensorHandler.GetHistorySummary)
		}

		api.GET("/recommendations", aqiHandler.GetRecommendations)
		api.GET("/groups", aqiHandler.GetGroups)

		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/send-verification-code", authHandler.SendCode)
			auth.POST("/send-verification-code-user", authHandler.SendCodeUser)
			auth.POST("/verify-email", authHandler.VerifyEmail)
			auth.POST("/reset-password", authHandler.ResetPassword)

			auth.POST("/logout", authRequired, authHandler.Logout)
			auth.GET("/me", authRequired, authHandler.Me)
			auth.PUT("/update", authRequired, authHandler.UpdateProfile)
		}

		users := api.Group("/users", authRequired, handlers.AdminOnly())
		{
			users.GET("", userHandler.GetAllUsers)
			users.POST("", userHandler.CreateUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
			users.PUT("/:id/activate", userHandler.ActivateUser)
			users.PUT("/:id/deactivate", userHandler.DeactivateUser)
			users.PUT("/:id/toggle-alerts", userHandler.ToggleAlerts)
		}
	}

	return &testEnv{router: router, sensors: sensorRepo, users: userRepo, mail: mail}
}
