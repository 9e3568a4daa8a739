package integrations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeChecker struct {
	name string
	err  error
}

func (f fakeChecker) Name() string {
	return f.name
}

func (f fakeChecker) TestConnection(ctx context.Context) error {
	return f.err
}

func TestCheckAll(t *testing.T) {
	statuses := CheckAll(context.Background(), []Checker{
		fakeChecker{name: "ghl"},
		fakeChecker{name: "vapi", err: errors.New("bad credentials")},
		fakeChecker{name: "n8n"},
		fakeChecker{name: "whatsapp", err: errors.New("instance closed")},
	})

	assert.Len(t, statuses, 4)

	assert.Equal(t, "ghl", statuses[0].Name)
	assert.True(t, statuses[0].Connected)
	assert.Empty(t, statuses[0].Error)

	assert.Equal(t, "vapi", statuses[1].Name)
	assert.False(t, statuses[1].Connected)
	assert.Equal(t, "bad credentials", statuses[1].Error)

	assert.True(t, statuses[2].Connected)
	assert.False(t, statuses[3].Connected)

	for _, s := range statuses {
		assert.False(t, s.CheckedAt.IsZero())
	}
}

func TestCheckAll_Empty(t *testing.T) {
	assert.Empty(t, CheckAll(context.Background(), nil))
}
