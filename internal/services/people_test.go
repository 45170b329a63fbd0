package services

import (
	"context"
	"net/http"
	"testing"

	"drive-activity-notifier/internal/models"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

const personURL = "https://people.googleapis.com/v1/people/111"

func newTestPeopleService(t *testing.T, client *http.Client) *PeopleService {
	t.Helper()
	svc, err := NewPeopleService(context.Background(), option.WithHTTPClient(client))
	require.NoError(t, err)
	return svc
}

func TestPeopleService_ResolveEmail(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "first address wins",
			body:     `{"resourceName":"people/111","emailAddresses":[{"value":"a@x.com"},{"value":"b@x.com"}]}`,
			expected: "a@x.com",
		},
		{
			name:     "no addresses",
			body:     `{"resourceName":"people/111"}`,
			expected: "",
		},
		{
			name:     "empty address list",
			body:     `{"resourceName":"people/111","emailAddresses":[]}`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, transport := newMockClient()
			transport.RegisterResponder(http.MethodGet, personURL,
				func(req *http.Request) (*http.Response, error) {
					assert.Equal(t, "emailAddresses", req.URL.Query().Get("personFields"))
					return httpmock.NewStringResponse(http.StatusOK, tt.body), nil
				})

			svc := newTestPeopleService(t, client)
			email, err := svc.ResolveEmail(context.Background(), models.ActorRef{PersonName: "people/111"})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, email)
			assert.Equal(t, 1, transport.GetTotalCallCount())
		})
	}
}

func TestPeopleService_ResolveEmail_UnresolvableActorSkipsLookup(t *testing.T) {
	client, transport := newMockClient()

	svc := newTestPeopleService(t, client)
	email, err := svc.ResolveEmail(context.Background(), models.ActorRef{})
	require.NoError(t, err)
	assert.Empty(t, email)
	assert.Equal(t, 0, transport.GetTotalCallCount())
}

func TestPeopleService_ResolveEmail_Failure(t *testing.T) {
	client, transport := newMockClient()
	transport.RegisterResponder(http.MethodGet, personURL,
		httpmock.NewStringResponder(http.StatusNotFound,
			`{"error":{"code":404,"message":"Requested entity was not found."}}`))

	svc := newTestPeopleService(t, client)
	email, err := svc.ResolveEmail(context.Background(), models.ActorRef{PersonName: "people/111"})
	assert.Empty(t, email)
	assert.ErrorIs(t, err, models.ErrResolveFailed)
}
