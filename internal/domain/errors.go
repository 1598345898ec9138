package domain

import "errors"

var (
	// ErrAuthentication: не удалось получить сессию сервиса рейтингов.
	ErrAuthentication = errors.New("authentication failed")
	// ErrRankingService: запрос сезона или списка рейтинга завершился ошибкой.
	ErrRankingService = errors.New("ranking service error")
	// ErrAssetFetch: не удалось скачать картинку позиции.
	ErrAssetFetch = errors.New("asset fetch failed")
	// ErrUpload: публикация отклонена.
	ErrUpload = errors.New("upload failed")
	// ErrNoEntities: сервис вернул пустой рейтинг.
	ErrNoEntities = errors.New("ranking is empty")
	// ErrInvalidImage: картинка не квадратная или сторона нечётная.
	ErrInvalidImage = errors.New("invalid image geometry")
)
