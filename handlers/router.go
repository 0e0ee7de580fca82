package handlers

import (
	"github.com/gorilla/mux"

	"challengeTrackerAPI/middleware"
	"challengeTrackerAPI/services"
)

// Services bundles what the API routes call into. Uploads may hold a
// service with a nil presigner.
type Services struct {
	Users         *services.UserService
	Challenges    *services.ChallengeService
	DailyLogs     *services.DailyLogService
	Leaderboard   *services.LeaderboardService
	Notifications *services.NotificationService
	Uploads       *services.UploadService
}

// RegisterRoutes mounts the /api/v1 routes on r. Rate limiting, metrics, CORS
// and the not-found handler are left to the caller.
func RegisterRoutes(r *mux.Router, svc *Services) {
	authHandler := NewAuthHandler(svc.Users)
	userHandler := NewUserHandler(svc.Users, svc.Challenges, svc.DailyLogs, svc.Leaderboard)
	challengeHandler := NewChallengeHandler(svc.Challenges, svc.DailyLogs)
	dailyLogHandler := NewDailyLogHandler(svc.DailyLogs)
	leaderboardHandler := NewLeaderboardHandler(svc.Leaderboard)
	adminHandler := NewAdminHandler(svc.Challenges)
	uploadHandler := NewUploadHandler(svc.Uploads)
	notificationHandler := NewNotificationHandler(svc.Notifications)

	api := r.PathPrefix("/api/v1").Subrouter()

	// -------------------------------------------------------------------------
	// PUBLIC ROUTES (identity is optional)
	// -------------------------------------------------------------------------
	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuthMiddleware(svc.Users))

	public.HandleFunc("/auth/signup", authHandler.SignUp).Methods("POST")
	public.HandleFunc("/auth/signin", authHandler.SignIn).Methods("POST")
	public.HandleFunc("/auth/session", authHandler.Session).Methods("GET")

	public.HandleFunc("/challenges", challengeHandler.ListChallenges).Methods("GET")
	public.HandleFunc("/challenges/slug/{slug}", challengeHandler.GetChallengeBySlug).Methods("GET")
	public.HandleFunc("/challenges/{id}", challengeHandler.GetChallenge).Methods("GET")
	public.HandleFunc("/challenges/{id}/feed", challengeHandler.GetChallengeFeed).Methods("GET")
	public.HandleFunc("/feed", dailyLogHandler.GetFeed).Methods("GET")
	public.HandleFunc("/leaderboard", leaderboardHandler.GetLeaderboard).Methods("GET")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(svc.Users))

	protected.HandleFunc("/auth/signout", authHandler.SignOut).Methods("POST")

	protected.HandleFunc("/user", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/user", userHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/user/stats", userHandler.GetUserStats).Methods("GET")
	protected.HandleFunc("/user/achievements", userHandler.GetAchievements).Methods("GET")
	protected.HandleFunc("/user/calendar", userHandler.GetCalendar).Methods("GET")
	protected.HandleFunc("/user/journal", userHandler.GetJournal).Methods("GET")
	protected.HandleFunc("/user/progress", userHandler.GetProgress).Methods("GET")
	protected.HandleFunc("/user/challenges", userHandler.GetChallenges).Methods("GET")

	protected.HandleFunc("/challenges/{id}/join", challengeHandler.JoinChallenge).Methods("POST")
	protected.HandleFunc("/challenges/{id}/join", challengeHandler.LeaveChallenge).Methods("DELETE")
	protected.HandleFunc("/challenges/{id}/logs/{date}", dailyLogHandler.SaveDailyLog).Methods("PUT")
	protected.HandleFunc("/logs/{id}/like", dailyLogHandler.LikeDailyLog).Methods("POST")

	protected.HandleFunc("/uploads/presign", uploadHandler.Presign).Methods("POST")
	protected.HandleFunc("/notifications/register-device", notificationHandler.RegisterDevice).Methods("POST")

	// -------------------------------------------------------------------------
	// ADMIN ROUTES
	// -------------------------------------------------------------------------
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AuthMiddleware(svc.Users))
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/challenges", adminHandler.CreateChallenge).Methods("POST")
	admin.HandleFunc("/challenges/{id}", adminHandler.UpdateChallenge).Methods("PUT")
	admin.HandleFunc("/challenges/{id}", adminHandler.DeleteChallenge).Methods("DELETE")
	admin.HandleFunc("/stats", adminHandler.GetStats).Methods("GET")
}
