package mystore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type session struct {
	UID  string
	Step int
}

func TestInMemoryStore(t *testing.T) {
	c := context.TODO()

	t.Run("Put and get", func(t *testing.T) {
		sut, cleanup, err := NewInMemoryStore[session](c)
		assert.NoError(t, err)
		defer cleanup()

		err = sut.Put(c, "123", session{UID: "123", Step: 1})
		assert.NoError(t, err)

		got, exists, err := sut.Get(c, "123")
		assert.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, 1, got.Step)
	})

	t.Run("Get not exists", func(t *testing.T) {
		sut, cleanup, _ := NewInMemoryStore[session](c)
		defer cleanup()

		_, exists, err := sut.Get(c, "unknown")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Delete", func(t *testing.T) {
		sut, cleanup, _ := NewInMemoryStore[session](c)
		defer cleanup()

		sut.Put(c, "123", session{UID: "123"})
		err := sut.Delete(c, "123")
		assert.NoError(t, err)

		_, exists, _ := sut.Get(c, "123")
		assert.False(t, exists)
	})

	t.Run("List", func(t *testing.T) {
		sut, cleanup, _ := NewInMemoryStore[session](c)
		defer cleanup()

		sut.Put(c, "123", session{UID: "123"})
		sut.Put(c, "456", session{UID: "456"})

		all, err := sut.List(c)
		assert.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("Transaction rolls back on error", func(t *testing.T) {
		sut, cleanup, _ := NewInMemoryStore[session](c)
		defer cleanup()

		err := sut.RunInTransaction(c, func(c context.Context) error {
			sut.Put(c, "123", session{UID: "123"})
			return fmt.Errorf("boom")
		})
		assert.Error(t, err)
	})
}
