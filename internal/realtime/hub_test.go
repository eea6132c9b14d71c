package realtime

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu       sync.Mutex
	messages [][]byte
}

func (c *fakeClient) Send(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message)
	return true
}

func (c *fakeClient) Close() {}

func TestHub_PublishToTopic(t *testing.T) {
	h := NewHub()
	projects := &fakeClient{}
	tasks := &fakeClient{}
	h.Register(TopicProjects, projects)
	h.Register(TopicTasks, tasks)

	h.Publish(TopicProjects, Event{Type: "project_created", ID: 3, ParentID: 1})

	require.Len(t, projects.messages, 1)
	require.Empty(t, tasks.messages)

	var evt Event
	require.NoError(t, json.Unmarshal(projects.messages[0], &evt))
	require.Equal(t, Event{Type: "project_created", ID: 3, ParentID: 1, Version: 1}, evt)
}

func TestHub_Unregister(t *testing.T) {
	h := NewHub()
	c := &fakeClient{}
	h.Register(TopicOrganizations, c)
	require.Equal(t, 1, h.Subscribers(TopicOrganizations))

	h.Unregister(TopicOrganizations, c)
	require.Equal(t, 0, h.Subscribers(TopicOrganizations))

	h.Publish(TopicOrganizations, Event{Type: "organization_deleted", ID: 1})
	require.Empty(t, c.messages)
}

func TestValidTopic(t *testing.T) {
	require.True(t, ValidTopic("taskcomments"))
	require.False(t, ValidTopic("users"))
}
