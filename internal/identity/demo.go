package identity

import "github.com/vidmira/backend/internal/models"

// Demo provider names.
const (
	ProviderGoogle = "google"
	ProviderYandex = "yandex"
)

type demoProvider struct {
	name     string
	identity models.Identity
}

func (p demoProvider) Name() string { return p.name }

func (p demoProvider) Identity() models.Identity { return p.identity }

// DemoProviders returns the closed set of stub providers. Each installs a
// fixed identity without any credential exchange.
func DemoProviders() []Provider {
	return []Provider{
		demoProvider{
			name: ProviderGoogle,
			identity: models.Identity{
				ID:          1,
				Email:       "demo@google.com",
				Name:        "Demo User",
				AvatarURL:   "https://api.dicebear.com/7.x/avataaars/svg?seed=google",
				ChannelName: "Мой канал",
				Subscribers: 0,
			},
		},
		demoProvider{
			name: ProviderYandex,
			identity: models.Identity{
				ID:          2,
				Email:       "demo@yandex.ru",
				Name:        "Демо Пользователь",
				AvatarURL:   "https://api.dicebear.com/7.x/avataaars/svg?seed=yandex",
				ChannelName: "Мой канал",
				Subscribers: 0,
			},
		},
	}
}
