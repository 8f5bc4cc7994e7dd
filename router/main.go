package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/skillora/skillora-api/config"
	"github.com/skillora/skillora-api/database"
	"github.com/skillora/skillora-api/handlers"
	application_handlers "github.com/skillora/skillora-api/handlers/application"
	auth_handlers "github.com/skillora/skillora-api/handlers/auth"
	certificate_handlers "github.com/skillora/skillora-api/handlers/certificate"
	classroom_handlers "github.com/skillora/skillora-api/handlers/classroom"
	course_handlers "github.com/skillora/skillora-api/handlers/course"
	enrollment_handlers "github.com/skillora/skillora-api/handlers/enrollment"
	internship_handlers "github.com/skillora/skillora-api/handlers/internship"
	job_handlers "github.com/skillora/skillora-api/handlers/job"
	notification_handlers "github.com/skillora/skillora-api/handlers/notification"
	payment_handlers "github.com/skillora/skillora-api/handlers/payment"
	progress_handlers "github.com/skillora/skillora-api/handlers/progress"
	"github.com/skillora/skillora-api/model"
	"github.com/skillora/skillora-api/services"
	"github.com/skillora/skillora-api/services/storage"
	"github.com/skillora/skillora-api/utils/auth"
	"github.com/skillora/skillora-api/utils/cache"
	"github.com/skillora/skillora-api/utils/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage, env *config.EnviornmentVariable) {
	jwtSecret := env.JWT_SECRET
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := env.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "skillora-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        jwtIssuer,
	})

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis backs brute force protection and payment OTPs
	redisURL := env.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	var otpStore services.OTPStore
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
		otpStore = services.NewRedisOTPStore(redisCache)
	}

	// Object storage for resumes and course materials
	var storageClient *storage.Client
	if env.STORAGE_ACCESS_KEY != "" {
		storageClient, err = storage.NewClient(storage.Config{
			AccessKey: env.STORAGE_ACCESS_KEY,
			SecretKey: env.STORAGE_SECRET_KEY,
			Bucket:    env.STORAGE_BUCKET,
			Region:    env.STORAGE_REGION,
			Endpoint:  env.STORAGE_ENDPOINT,
			CDNURL:    env.STORAGE_CDN_URL,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize object storage: %v. File uploads will be disabled.", err)
		}
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Services
	defaults := config.DefaultCourseCatalog()
	notificationService := services.NewNotificationService(db)
	progressService := services.NewProgressService(db)
	courseService := services.NewCourseService(db, defaults)
	classroomService := services.NewClassroomService(db, notificationService)
	enrollmentService := services.NewEnrollmentService(db, progressService)
	paymentService := services.NewPaymentService(db, otpStore, notificationService)
	certificateService := services.NewCertificateService(db, progressService)
	internshipService := services.NewInternshipService(db)
	matchingService := services.NewMatchingService(db, defaults)
	applicationService := services.NewApplicationService(db, notificationService)
	jobService := services.NewJobService(db)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection, storageClient)
	courseHandler := course_handlers.NewCourseHandler(courseService)
	classroomHandler := classroom_handlers.NewClassroomHandler(classroomService, enrollmentService, storageClient)
	paymentHandler := payment_handlers.NewPaymentHandler(paymentService)
	enrollmentHandler := enrollment_handlers.NewEnrollmentHandler(enrollmentService)
	progressHandler := progress_handlers.NewProgressHandler(progressService, enrollmentService)
	certificateHandler := certificate_handlers.NewCertificateHandler(certificateService)
	internshipHandler := internship_handlers.NewInternshipHandler(internshipService, matchingService)
	applicationHandler := application_handlers.NewApplicationHandler(applicationService)
	jobHandler := job_handlers.NewJobHandler(jobService)
	notificationHandler := notification_handlers.NewNotificationHandler(notificationService)

	// Security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(store))

	// API v1 group
	api := app.Group("/api/v1")

	student := authMiddleware.RequireRole(model.RoleStudent)
	teacher := authMiddleware.RequireRole(model.RoleTeacher)
	company := authMiddleware.RequireRole(model.RoleCompany)

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.GetProfile)
	profileGroup.Put("/", authHandler.UpdateProfile)
	profileGroup.Put("/student", student, authHandler.UpdateStudentProfile)
	profileGroup.Put("/company", company, authHandler.UpdateCompanyProfile)
	profileGroup.Post("/resume", student, authHandler.UploadResume)

	// Course catalog
	courses := api.Group("/courses")
	courses.Get("/", courseHandler.ListCourses)
	courses.Get("/mine", authMiddleware.Required(), teacher, courseHandler.ListMyCourses)
	courses.Get("/:id", courseHandler.GetCourse)
	courses.Post("/", authMiddleware.Required(), teacher, courseHandler.CreateCourse)
	courses.Put("/:id", authMiddleware.Required(), teacher, courseHandler.UpdateCourse)
	courses.Delete("/:id", authMiddleware.Required(), teacher, courseHandler.DeleteCourse)

	// Classroom content (nested under courses)
	courses.Get("/:course_id/materials", authMiddleware.Required(), classroomHandler.ListMaterials)
	courses.Post("/:course_id/materials", authMiddleware.Required(), teacher, classroomHandler.CreateMaterial)
	courses.Get("/:course_id/assignments", authMiddleware.Required(), classroomHandler.ListAssignments)
	courses.Post("/:course_id/assignments", authMiddleware.Required(), teacher, classroomHandler.CreateAssignment)

	materials := api.Group("/materials", authMiddleware.Required())
	materials.Put("/:id", teacher, classroomHandler.UpdateMaterial)
	materials.Post("/upload", teacher, classroomHandler.UploadMaterialFile)
	materials.Post("/:id/view", student, progressHandler.MarkMaterialViewed)

	assignments := api.Group("/assignments", authMiddleware.Required())
	assignments.Post("/:id/submit", student, classroomHandler.SubmitAssignment)
	assignments.Get("/:id/submissions", teacher, classroomHandler.ListSubmissions)

	submissions := api.Group("/submissions", authMiddleware.Required())
	submissions.Post("/:id/grade", teacher, classroomHandler.GradeSubmission)

	// Cart and payments (students)
	cart := api.Group("/cart", authMiddleware.Required(), student)
	cart.Get("/", paymentHandler.ListCart)
	cart.Post("/:course_id", paymentHandler.AddToCart)
	cart.Delete("/:course_id", paymentHandler.RemoveFromCart)

	payments := api.Group("/payments", authMiddleware.Required(), student)
	payments.Get("/", paymentHandler.ListPayments)
	payments.Post("/checkout", paymentHandler.Checkout)
	payments.Post("/verify", paymentHandler.VerifyOTP)

	// Enrollments and progress (students)
	enrollments := api.Group("/enrollments", authMiddleware.Required(), student)
	enrollments.Get("/", enrollmentHandler.ListEnrollments)
	enrollments.Delete("/:course_id", enrollmentHandler.Unenroll)
	enrollments.Get("/:course_id/progress", progressHandler.GetCourseProgress)

	// Certificates
	certificates := api.Group("/certificates")
	certificates.Get("/verify/:certificate_id", certificateHandler.VerifyCertificate) // Public verification
	certificates.Get("/", authMiddleware.Required(), student, certificateHandler.ListMyCertificates)
	certificates.Post("/claim/:course_id", authMiddleware.Required(), student, certificateHandler.ClaimCertificate)

	// Internships
	internships := api.Group("/internships")
	internships.Get("/", internshipHandler.BrowseInternships)
	internships.Get("/recommendations", authMiddleware.Required(), student, internshipHandler.GetRecommendations)
	internships.Get("/suggested-skills", authMiddleware.Required(), student, internshipHandler.GetSuggestedSkills)
	internships.Get("/mine", authMiddleware.Required(), company, internshipHandler.ListMyInternships)
	internships.Get("/:id", authMiddleware.Optional(), internshipHandler.GetInternship)
	internships.Post("/", authMiddleware.Required(), company, internshipHandler.CreateInternship)
	internships.Put("/:id", authMiddleware.Required(), company, internshipHandler.UpdateInternship)
	internships.Post("/:id/publish", authMiddleware.Required(), company, internshipHandler.PublishInternship)
	internships.Post("/:id/close", authMiddleware.Required(), company, internshipHandler.CloseInternship)

	// Internship applications
	internships.Post("/:internship_id/apply", authMiddleware.Required(), student, applicationHandler.Apply)
	internships.Get("/:internship_id/applications", authMiddleware.Required(), company, applicationHandler.ListInternshipApplications)

	applications := api.Group("/applications", authMiddleware.Required())
	applications.Get("/", student, applicationHandler.ListMyApplications)
	applications.Post("/:id/withdraw", student, applicationHandler.Withdraw)
	applications.Post("/:id/transition", company, applicationHandler.TransitionApplication)

	// Job board
	jobs := api.Group("/jobs")
	jobs.Get("/", jobHandler.ListJobs)
	jobs.Get("/mine", authMiddleware.Required(), company, jobHandler.ListMyJobs)
	jobs.Post("/", authMiddleware.Required(), company, jobHandler.CreateJob)
	jobs.Put("/:id", authMiddleware.Required(), company, jobHandler.UpdateJob)
	jobs.Delete("/:id", authMiddleware.Required(), company, jobHandler.DeleteJob)
	jobs.Post("/:id/apply", jobHandler.ApplyToJob) // Public: anonymous applications
	jobs.Get("/:id/applications", authMiddleware.Required(), company, jobHandler.ListJobApplications)

	jobApplications := api.Group("/job-applications", authMiddleware.Required(), company)
	jobApplications.Post("/:id/status", jobHandler.SetApplicationStatus)

	// Notifications
	notifications := api.Group("/notifications", authMiddleware.Required())
	notifications.Get("/", notificationHandler.ListNotifications)
	notifications.Get("/unread-count", notificationHandler.UnreadCount)
	notifications.Post("/:id/read", notificationHandler.MarkRead)
	notifications.Post("/read-all", notificationHandler.MarkAllRead)
}
