package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/handlers"
	"github.com/yukikurage/team-task-api/internal/middleware"
	"github.com/yukikurage/team-task-api/internal/services"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Auth     *services.AuthService
	Tokens   *services.TokenService
	Profiles *services.ProfileService
	Teams    *services.TeamService
	Tasks    *services.TaskService
	Activity *services.ActivityService
}

// NewRouter builds the gin engine with every API route registered.
func NewRouter(logger *log.Logger, store sessions.Store, svc Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	authHandler := handlers.NewAuthHandler(svc.Auth, svc.Tokens)
	profileHandler := handlers.NewProfileHandler(svc.Profiles)
	taskHandler := handlers.NewTaskHandler(svc.Tasks)
	teamHandler := handlers.NewTeamHandler(svc.Teams)
	teamTaskHandler := handlers.NewTeamTaskHandler(svc.Tasks)
	activityHandler := handlers.NewActivityHandler(svc.Activity)

	requireAuth := middleware.RequireAuth(svc.Tokens, svc.Auth)
	teamMember := middleware.RequireTeamMember(svc.Teams)
	teamOwner := middleware.RequireTeamOwner()
	ownTask := middleware.RequireOwnTask(svc.Tasks)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Team Task API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register/", authHandler.Register)
		api.POST("/login/", authHandler.Login)
		api.POST("/token/refresh/", authHandler.RefreshToken)
		api.POST("/logout/", authHandler.Logout)

		protected := api.Group("")
		protected.Use(requireAuth)
		{
			protected.GET("/check-superuser/", authHandler.CheckSuperuser)
			protected.GET("/profile/", profileHandler.GetProfile)
			protected.PATCH("/profile/", profileHandler.UpdateProfile)
			protected.GET("/logs/", middleware.RequireAdmin(), activityHandler.ListLogs)
		}

		// Personal task routes
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("/", taskHandler.ListTasks)
			tasks.POST("/", taskHandler.CreateTask)
			tasks.POST("/generate/", taskHandler.GenerateTasks)
			tasks.GET("/:id/", ownTask, taskHandler.GetTask)
			tasks.PUT("/:id/", ownTask, taskHandler.ReplaceTask)
			tasks.PATCH("/:id/", ownTask, taskHandler.PatchTask)
			tasks.DELETE("/:id/", ownTask, taskHandler.DeleteTask)
		}

		// Team routes
		teams := api.Group("/teams")
		teams.Use(requireAuth)
		{
			teams.GET("/", teamHandler.ListTeams)
			teams.POST("/create/", middleware.RequireAdmin(), teamHandler.CreateTeam)

			team := teams.Group("/:id", teamMember)
			{
				team.POST("/add-member/", teamOwner, teamHandler.AddMember)
				team.GET("/available-users/", teamHandler.AvailableUsers)
				team.GET("/members/", teamHandler.ListMembers)
				team.GET("/details/", teamHandler.Details)
				team.GET("/members/:user_id/tasks/", teamTaskHandler.MemberTasks)

				team.POST("/tasks/create/", teamOwner, teamTaskHandler.CreateTeamTask)
				team.GET("/tasks/my-tasks/", teamTaskHandler.MyTasks)
				team.PATCH("/tasks/:task_id/update-status/", teamTaskHandler.UpdateStatus)
				team.DELETE("/tasks/:task_id/delete/", teamOwner, teamTaskHandler.DeleteTeamTask)
			}
		}
	}

	return r
}
