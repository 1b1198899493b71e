package config

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channelID, baseURL string) *Slack {
	return &Slack{
		botToken:  botToken,
		channelID: channelID,
		baseURL:   baseURL,
	}
}

// NewAuthForTest creates an Auth config for testing purposes
func NewAuthForTest(noAuth bool, email, name string) *Auth {
	return &Auth{noAuth: noAuth, devEmail: email, devName: name}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID string) *Repository {
	return &Repository{backend: backend, projectID: projectID}
}
