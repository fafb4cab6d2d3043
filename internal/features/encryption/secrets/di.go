package secrets

var secretKeyService = &SecretKeyService{}

func GetSecretKeyService() *SecretKeyService {
	return secretKeyService
}

func NewSecretKeyService(key string, keyPath string) *SecretKeyService {
	return &SecretKeyService{
		loadKeyConfig: func() (string, string) { return key, keyPath },
	}
}
