package assistant

import (
	"context"
	"fmt"

	"github.com/clinicops/clinic-api/internal/model"
)

// Assistant generates the reply for a chat turn. It is an external
// collaborator; the message log persists whatever text it hands back.
type Assistant interface {
	Reply(ctx context.Context, user *model.User, input string) (string, error)
}

type canned struct{}

// NewCanned returns an assistant that echoes a canned acknowledgement.
// Stands in until a real assistant backend is wired up.
func NewCanned() Assistant {
	return canned{}
}

func (canned) Reply(_ context.Context, user *model.User, input string) (string, error) {
	return fmt.Sprintf("Thanks %s, I received: %q. A member of the clinic team will follow up.", user.Name, input), nil
}
