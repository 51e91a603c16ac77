package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	// All console routes live under the configured namespace.
	ns := s.echo.Group("/" + s.adminCfg.Namespace)

	ns.POST("/login", s.login)
	// Logout answers on every configured method; DELETE and GET by default so
	// plain links can end a session.
	for _, method := range s.adminCfg.LogoutMethods {
		ns.Add(method, "/logout", s.logout, s.middleware.Session.RequireSession())
	}

	ns.GET("/confirmation", s.showConfirmation)
	ns.PUT("/confirmation", s.confirmAccount)

	ns.POST("/password", s.requestPasswordReset)
	ns.PUT("/password", s.resetPassword)

	ns.GET("/me", s.getOwnAccount, s.middleware.Session.RequireSession())

	admins := ns.Group("/admins", s.middleware.Session.RequireSession())
	admins.POST("", s.inviteAdmin)
	admins.POST("/:id/resend-confirmation", s.resendConfirmation)
}
