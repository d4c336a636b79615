package notification

//go:generate mockgen -destination=mocks/mock_provider.go -package=mocks careerlink/notification PushProvider
