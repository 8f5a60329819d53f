package http

import (
	"net/http"

	"medlink-portal/internal/delivery/http/handler"
	"medlink-portal/internal/delivery/http/middleware"
	"medlink-portal/internal/delivery/http/view"

	"github.com/gorilla/mux"
)

type Router struct {
	router               *mux.Router
	authHandler          *handler.AuthHandler
	adminHandler         *handler.AdminHandler
	slotHandler          *handler.SlotHandler
	doctorHandler        *handler.DoctorHandler
	patientHandler       *handler.PatientHandler
	bookingHandler       *handler.BookingHandler
	passwordResetHandler *handler.PasswordResetHandler
	authMiddleware       *middleware.AuthMiddleware
	corsMiddleware       *middleware.CORSMiddleware
	loggerMiddleware     *middleware.LoggerMiddleware
	rateLimiter          *middleware.RateLimiter
}

func NewRouter(
	authHandler *handler.AuthHandler,
	adminHandler *handler.AdminHandler,
	slotHandler *handler.SlotHandler,
	doctorHandler *handler.DoctorHandler,
	patientHandler *handler.PatientHandler,
	bookingHandler *handler.BookingHandler,
	passwordResetHandler *handler.PasswordResetHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggerMiddleware *middleware.LoggerMiddleware,
	rateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		router:               mux.NewRouter(),
		authHandler:          authHandler,
		adminHandler:         adminHandler,
		slotHandler:          slotHandler,
		doctorHandler:        doctorHandler,
		patientHandler:       patientHandler,
		bookingHandler:       bookingHandler,
		passwordResetHandler: passwordResetHandler,
		authMiddleware:       authMiddleware,
		corsMiddleware:       corsMiddleware,
		loggerMiddleware:     loggerMiddleware,
		rateLimiter:          rateLimiter,
	}
}

func (r *Router) Setup() *mux.Router {
	r.router.Use(r.loggerMiddleware.Handle)
	r.router.Use(r.authMiddleware.Authenticate)
	r.router.Use(r.authMiddleware.Guard)

	// Health check
	r.router.HandleFunc("/healthz", r.healthCheck).Methods(http.MethodGet)
	r.router.PathPrefix("/static/").Handler(view.Static()).Methods(http.MethodGet)

	// Demo password reset API (public, rate limited)
	api := r.router.PathPrefix("/api/auth").Subrouter()
	api.Use(r.corsMiddleware.Handle)
	api.Use(r.rateLimiter.Handle)
	api.HandleFunc("/forgot-password", r.passwordResetHandler.ForgotPassword).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/reset-password", r.passwordResetHandler.ResetPassword).Methods(http.MethodPost, http.MethodOptions)

	// Public pages
	r.router.HandleFunc("/", r.authHandler.Home).Methods(http.MethodGet)
	r.router.HandleFunc("/login", r.authHandler.LoginPage).Methods(http.MethodGet)
	r.router.Handle("/login", r.rateLimiter.HandleFunc(r.authHandler.Login)).Methods(http.MethodPost)
	r.router.HandleFunc("/register", r.authHandler.RegisterPage).Methods(http.MethodGet)
	r.router.Handle("/register", r.rateLimiter.HandleFunc(r.authHandler.Register)).Methods(http.MethodPost)
	r.router.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	r.router.HandleFunc("/recuperar-senha", r.authHandler.ForgotPasswordPage).Methods(http.MethodGet)
	r.router.Handle("/recuperar-senha", r.rateLimiter.HandleFunc(r.authHandler.ForgotPassword)).Methods(http.MethodPost)
	r.router.HandleFunc("/recuperar-senha/reset/{token}", r.authHandler.ResetPasswordPage).Methods(http.MethodGet)
	r.router.Handle("/recuperar-senha/reset/{token}", r.rateLimiter.HandleFunc(r.authHandler.ResetPassword)).Methods(http.MethodPost)

	// Admin login and logout are public and must be matched before the
	// protected admin subrouter.
	r.router.HandleFunc("/admin/login", r.authHandler.AdminLoginPage).Methods(http.MethodGet)
	r.router.Handle("/admin/login", r.rateLimiter.HandleFunc(r.authHandler.AdminLogin)).Methods(http.MethodPost)
	r.router.HandleFunc("/admin/logout", r.authHandler.AdminLogout).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	r.router.Handle("/admin", middleware.RequireAdmin(http.HandlerFunc(r.adminHandler.Dashboard))).Methods(http.MethodGet)
	admin := r.router.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/medicos", r.adminHandler.Doctors).Methods(http.MethodGet)
	admin.HandleFunc("/medicos/novo", r.adminHandler.NewDoctorPage).Methods(http.MethodGet)
	admin.HandleFunc("/medicos/novo", r.adminHandler.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/pacientes", r.adminHandler.Patients).Methods(http.MethodGet)
	admin.HandleFunc("/consultas", r.adminHandler.Appointments).Methods(http.MethodGet)
	admin.HandleFunc("/consultas/{id}/cancelar", r.adminHandler.CancelAppointment).Methods(http.MethodPost)
	admin.HandleFunc("/slots", r.slotHandler.Slots).Methods(http.MethodGet)
	admin.HandleFunc("/slots", r.slotHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/slots/{id}/cancelar", r.slotHandler.Cancel).Methods(http.MethodPost)

	// Doctor routes (protected - doctor only)
	r.router.Handle("/medico", middleware.RequireDoctor(http.HandlerFunc(r.doctorHandler.Dashboard))).Methods(http.MethodGet)
	doctor := r.router.PathPrefix("/medico").Subrouter()
	doctor.Use(middleware.RequireDoctor)
	doctor.HandleFunc("/consultas", r.doctorHandler.Appointments).Methods(http.MethodGet)
	doctor.HandleFunc("/disponibilidades", r.doctorHandler.Availability).Methods(http.MethodGet)

	// Patient routes (protected - patient only)
	r.router.Handle("/paciente", middleware.RequirePatient(http.RedirectHandler("/paciente/consultas", http.StatusFound))).Methods(http.MethodGet)
	patient := r.router.PathPrefix("/paciente").Subrouter()
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/consultas", r.patientHandler.Appointments).Methods(http.MethodGet)
	patient.HandleFunc("/consultas/nova", r.bookingHandler.Page).Methods(http.MethodGet)
	patient.HandleFunc("/consultas/nova", r.bookingHandler.Book).Methods(http.MethodPost)
	patient.HandleFunc("/consultas/{id}/cancelar", r.patientHandler.CancelAppointment).Methods(http.MethodPost)
	patient.HandleFunc("/perfil", r.patientHandler.Profile).Methods(http.MethodGet)
	patient.HandleFunc("/perfil", r.patientHandler.UpdateProfile).Methods(http.MethodPost)

	// Middlewares only wrap matched routes; unmatched paths and methods
	// still pass the guard so protected areas never answer 404 or 405 to
	// anonymous users.
	r.router.NotFoundHandler = r.unmatched(http.NotFoundHandler())
	r.router.MethodNotAllowedHandler = r.unmatched(http.HandlerFunc(methodNotAllowed))

	return r.router
}

func (r *Router) unmatched(h http.Handler) http.Handler {
	return r.loggerMiddleware.Handle(r.authMiddleware.Authenticate(r.authMiddleware.Guard(h)))
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
