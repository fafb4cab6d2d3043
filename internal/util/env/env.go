package env_utils

type EnvMode string

const (
	EnvModeDevelopment EnvMode = "development"
	EnvModeProduction  EnvMode = "production"
)

// IsDevelopment is true only for an explicit development mode. Empty or
// unknown modes are treated as production.
func (m EnvMode) IsDevelopment() bool {
	return m == EnvModeDevelopment
}
