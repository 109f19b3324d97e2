package telephony_test

import (
	otelMocks "bedcall/infras/otel/mocks"
	queueMocks "bedcall/internal/domains/queue/mocks"
	"bedcall/internal/domains/queue/model/dto"
	"bedcall/internal/handlers/telephony"
	"bedcall/shared/constant"
	"bedcall/shared/failure"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func postStatus(router http.Handler, token string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/telephony/status?token="+token, strings.NewReader(form.Encode()))
	req.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeFormURLEncoded)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func newRouter(t *testing.T) (http.Handler, *queueMocks.MockQueueService) {
	queue := queueMocks.NewMockQueueService(gomock.NewController(t))
	handler := telephony.New(queue, otelMocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return router, queue
}

func TestHandler_CallStatus(t *testing.T) {
	t.Run("form fields and token reach the queue", func(t *testing.T) {
		router, queue := newRouter(t)
		queue.EXPECT().HandleStatus(gomock.Any(), dto.StatusCallback{
			Token:      "signed",
			CallSid:    "CA123",
			CallStatus: "completed",
		}).Return(nil)

		rec := postStatus(router, "signed", url.Values{"CallSid": {"CA123"}, "CallStatus": {"completed"}})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bad token is unauthorized", func(t *testing.T) {
		router, queue := newRouter(t)
		queue.EXPECT().HandleStatus(gomock.Any(), gomock.Any()).Return(failure.InvalidCallToken)

		rec := postStatus(router, "forged", url.Values{"CallStatus": {"busy"}})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
