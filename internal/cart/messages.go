package cart

import (
	"fmt"
	"time"

	"github.com/angelmondragon/polly-storefront/internal/notifications"
	"github.com/angelmondragon/polly-storefront/pkg/enums"
)

const defaultNotificationDuration = 3 * time.Second

func addedNotification(name string, d time.Duration) notifications.Notification {
	return notifications.Notification{
		Title:       "Produto Adicionado!",
		Description: fmt.Sprintf("%s foi adicionado ao carrinho.", name),
		Variant:     enums.NotificationVariantDefault,
		Duration:    d,
	}
}

func removedNotification(name string, d time.Duration) notifications.Notification {
	return notifications.Notification{
		Title:       "Produto Removido",
		Description: fmt.Sprintf("%s foi removido do carrinho.", name),
		Variant:     enums.NotificationVariantDestructive,
		Duration:    d,
	}
}

func clearedNotification(d time.Duration) notifications.Notification {
	return notifications.Notification{
		Title:       "Carrinho Limpo",
		Description: "Todos os produtos foram removidos do carrinho.",
		Variant:     enums.NotificationVariantDefault,
		Duration:    d,
	}
}

// ItemLabel renders the cart size the way the storefront displays it.
func ItemLabel(count int) string {
	if count == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d itens", count)
}
