package config

type Model struct {
	ArtifactsPath string `env:"MODEL_ARTIFACTS_PATH" envDefault:"artifacts/classifier.json"`
	Version       string `env:"MODEL_VERSION" envDefault:"v1"`
}
