package engines

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type orderedEngine struct {
	id  string
	log *[]string
}

func (e *orderedEngine) NotifyRebuilding() { *e.log = append(*e.log, e.id+":rebuilding") }
func (e *orderedEngine) NotifyRebuilt()    { *e.log = append(*e.log, e.id+":rebuilt") }

func TestCoordinator_NotifiesInRegistrationOrder(t *testing.T) {
	var log []string
	c := NewCoordinator(
		&orderedEngine{id: "a", log: &log},
		&orderedEngine{id: "b", log: &log},
	)

	c.Rebuilding()
	c.Rebuilt()

	assert.Equal(t, []string{
		"a:rebuilding", "b:rebuilding",
		"a:rebuilt", "b:rebuilt",
	}, log)
}

func TestCoordinator_EachEngineNotifiedOncePerCycle(t *testing.T) {
	var log []string
	c := NewCoordinator(&orderedEngine{id: "a", log: &log})

	for i := 0; i < 3; i++ {
		log = log[:0]
		c.Rebuilding()
		c.Rebuilt()
		assert.Equal(t, []string{"a:rebuilding", "a:rebuilt"}, log)
	}
}

func TestCoordinator_NoEngines(t *testing.T) {
	c := NewCoordinator()
	assert.Equal(t, 0, c.Len())

	// Must be safe no-ops.
	c.Rebuilding()
	c.Rebuilt()
}

func TestNewCoordinator_CopiesEngineSlice(t *testing.T) {
	var log []string
	engines := []RebuildEngine{&orderedEngine{id: "a", log: &log}}
	c := NewCoordinator(engines...)

	engines[0] = &orderedEngine{id: "z", log: &log}
	c.Rebuilding()

	assert.Equal(t, []string{"a:rebuilding"}, log)
}
