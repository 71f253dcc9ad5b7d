package feed

import (
	"context"

	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
)

// Channel ist der Pub/Sub-Kanal für Änderungen an Assignment-Datensätzen.
const Channel = "warteschlange:assignments"

type PublisherContract interface {
	PublishChange(ctx context.Context, event entity.ChangeEvent) error
}

// SubscriberContract liefert einen typisierten Ereigniskanal plus Teardown.
// Der Kanal wird geschlossen, sobald der Kontext endet oder Teardown gerufen wird.
type SubscriberContract interface {
	Subscribe(ctx context.Context) (<-chan entity.ChangeEvent, func())
}
