package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")

	api.POST("/signup", s.signup)
	api.POST("/verify", s.verifySignupOTP)
	api.POST("/resendotp", s.resendSignupOTP)
	api.POST("/login", s.login)
	api.POST("/forgotpassword", s.forgotPassword)
	api.POST("/resendforgotpassotp", s.resendForgotOTP)
	api.POST("/verifyforgototp", s.verifyForgotOTP)
	api.POST("/resetpassword", s.resetPassword)

	api.GET("/user/all", s.listUsers)
	api.GET("/user/:id", s.getUserByID)

	protected := api.Group("")
	protected.Use(s.middleware.Auth.RequireToken())
	protected.GET("/me", s.myProfile)
	protected.POST("/update/user", s.updateName)
}
