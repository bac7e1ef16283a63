package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/habitline/habitline/server/internal/api/recovery"
	respond "github.com/habitline/habitline/server/internal/api/respond"
	"github.com/habitline/habitline/server/internal/auth"
	"github.com/habitline/habitline/server/internal/services"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Users        *services.UserService
	Categories   *services.CategoryService
	Habits       *services.HabitService
	Records      *services.RecordService
	Achievements *services.AchievementService
	Stats        *services.StatsService

	Authorizer auth.Authorizer
	Health     HealthReporter
	// Today supplies the default reference date; nil means today in UTC.
	Today func() time.Time
}

const idPattern = "[0-9]+"

// NewRouter creates the HTTP router. Everything under /api except
// /api/health requires a bearer API key.
func NewRouter(d Deps) *mux.Router {
	today := d.Today
	if today == nil {
		today = func() time.Time {
			y, m, day := time.Now().UTC().Date()
			return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
		}
	}

	router := mux.NewRouter()

	// Global middlewares
	router.Use(RequestLog, recovery.Middleware)
	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.WriteNotFound(w, "no route for "+r.URL.Path)
	})
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.WriteError(w, http.StatusMethodNotAllowed, r.Method+" not allowed on "+r.URL.Path)
	})
	router.NotFoundHandler = notFound
	router.MethodNotAllowedHandler = methodNotAllowed

	healthHandler := NewHealthHandler(d.Health)
	userHandler := NewUserHandler(d.Users, d.Achievements)
	categoryHandler := NewCategoryHandler(d.Categories)
	habitHandler := NewHabitHandler(d.Habits, d.Stats, today)
	recordHandler := NewRecordHandler(d.Records)
	achievementHandler := NewAchievementHandler(d.Achievements)
	statsHandler := NewStatsHandler(d.Stats, today)

	// Health endpoint, unauthenticated
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	// Subrouters do not inherit the parent's fallback handlers.
	api.NotFoundHandler = notFound
	api.MethodNotAllowedHandler = methodNotAllowed
	api.Use(auth.Middleware(d.Authorizer, d.Users))

	// Profile
	api.HandleFunc("/me", userHandler.GetMe).Methods("GET")
	api.HandleFunc("/me", userHandler.PatchMe).Methods("PATCH")

	// Users
	api.HandleFunc("/users", userHandler.ListUsers).Methods("GET")
	api.HandleFunc("/users", userHandler.CreateUser).Methods("POST")
	api.HandleFunc("/users/{userId:"+idPattern+"}", userHandler.GetUser).Methods("GET")
	api.HandleFunc("/users/{userId:"+idPattern+"}", userHandler.PutUser).Methods("PUT")
	api.HandleFunc("/users/{userId:"+idPattern+"}", userHandler.DeleteUser).Methods("DELETE")
	api.HandleFunc("/users/{userId:"+idPattern+"}/achievements", userHandler.ListUserAchievements).Methods("GET")
	api.HandleFunc("/users/{userId:"+idPattern+"}/achievements/{achievementId:"+idPattern+"}", userHandler.AwardAchievement).Methods("PUT")
	api.HandleFunc("/users/{userId:"+idPattern+"}/achievements/{achievementId:"+idPattern+"}", userHandler.RevokeAchievement).Methods("DELETE")

	// Categories
	api.HandleFunc("/categories", categoryHandler.ListCategories).Methods("GET")
	api.HandleFunc("/categories", categoryHandler.CreateCategory).Methods("POST")
	api.HandleFunc("/categories/{categoryId:"+idPattern+"}", categoryHandler.GetCategory).Methods("GET")
	api.HandleFunc("/categories/{categoryId:"+idPattern+"}", categoryHandler.UpdateCategory).Methods("PUT")
	api.HandleFunc("/categories/{categoryId:"+idPattern+"}", categoryHandler.DeleteCategory).Methods("DELETE")

	// Habits; fixed paths before {habitId}
	api.HandleFunc("/habits/weekly-status", habitHandler.WeeklyStatus).Methods("GET")
	api.HandleFunc("/habits/daily-statistics", statsHandler.DailyStatistics).Methods("GET")
	api.HandleFunc("/habits", habitHandler.ListHabits).Methods("GET")
	api.HandleFunc("/habits", habitHandler.CreateHabit).Methods("POST")
	api.HandleFunc("/habits/{habitId:"+idPattern+"}", habitHandler.GetHabit).Methods("GET")
	api.HandleFunc("/habits/{habitId:"+idPattern+"}", habitHandler.UpdateHabit).Methods("PUT")
	api.HandleFunc("/habits/{habitId:"+idPattern+"}", habitHandler.DeleteHabit).Methods("DELETE")
	api.HandleFunc("/habits/{habitId:"+idPattern+"}/weekly-status", habitHandler.WeeklyStatus).Methods("GET")

	// Records
	api.HandleFunc("/records", recordHandler.ListRecords).Methods("GET")
	api.HandleFunc("/records", recordHandler.CreateRecord).Methods("POST")
	api.HandleFunc("/records/{recordId:"+idPattern+"}", recordHandler.GetRecord).Methods("GET")
	api.HandleFunc("/records/{recordId:"+idPattern+"}", recordHandler.UpdateRecord).Methods("PUT")
	api.HandleFunc("/records/{recordId:"+idPattern+"}", recordHandler.DeleteRecord).Methods("DELETE")

	// Achievements
	api.HandleFunc("/achievements", achievementHandler.ListAchievements).Methods("GET")
	api.HandleFunc("/achievements", achievementHandler.CreateAchievement).Methods("POST")
	api.HandleFunc("/achievements/{achievementId:"+idPattern+"}", achievementHandler.GetAchievement).Methods("GET")
	api.HandleFunc("/achievements/{achievementId:"+idPattern+"}", achievementHandler.UpdateAchievement).Methods("PUT")
	api.HandleFunc("/achievements/{achievementId:"+idPattern+"}", achievementHandler.DeleteAchievement).Methods("DELETE")

	// Statistics
	api.HandleFunc("/statistics/daily", statsHandler.DailyStatistics).Methods("GET")

	return router
}
