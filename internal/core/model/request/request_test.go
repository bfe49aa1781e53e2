package request

import (
	"encoding/json"
	"testing"

	. "github.com/onsi/gomega"
)

func decode[T any](t *testing.T, body string) T {
	var out T
	Expect(json.Unmarshal([]byte(body), &out)).To(Succeed(), "body=%s", body)
	return out
}

func TestValue_PresenceAndTruthiness(t *testing.T) {
	RegisterTestingT(t)

	cases := []struct {
		body    string
		present bool
		truthy  bool
	}{
		{`{}`, false, false},
		{`{"completed":null}`, true, false},
		{`{"completed":false}`, true, false},
		{`{"completed":0}`, true, false},
		{`{"completed":""}`, true, false},
		{`{"completed":true}`, true, true},
		{`{"completed":1}`, true, true},
		{`{"completed":"no"}`, true, true},
		{`{"completed":[]}`, true, true},
		{`{"completed":{}}`, true, true},
	}

	for _, tc := range cases {
		body := decode[UpdateTodoBody](t, tc.body)

		Expect(body.Completed.Present).To(Equal(tc.present), "body=%s", tc.body)
		Expect(body.Completed.Truthy()).To(Equal(tc.truthy), "body=%s", tc.body)
	}
}

func TestCreateTodoBody_Request(t *testing.T) {
	RegisterTestingT(t)

	t.Run("falsy members count as missing", func(t *testing.T) {
		for _, body := range []string{`{}`, `{"title":null}`, `{"title":false}`, `{"title":0}`, `{"title":""}`} {
			req, err := decode[CreateTodoBody](t, body).Request()

			Expect(err).To(BeNil())
			Expect(req.Title).To(BeNil(), "body=%s", body)
		}

		req, err := decode[CreateTodoBody](t, `{"title":"A","description":false}`).Request()

		Expect(err).To(BeNil())
		Expect(*req.Title).To(Equal("A"))
		Expect(req.Description).To(BeNil())
	})

	t.Run("truthy non strings are rejected", func(t *testing.T) {
		_, err := decode[CreateTodoBody](t, `{"title":5}`).Request()
		Expect(err).To(MatchError(ErrUnsupportedType))

		_, err = decode[CreateTodoBody](t, `{"title":"A","description":{"a":1}}`).Request()
		Expect(err).To(MatchError(ErrUnsupportedType))
	})
}

func TestUpdateTodoBody_Request(t *testing.T) {
	RegisterTestingT(t)

	t.Run("absent members stay nil", func(t *testing.T) {
		req, err := decode[UpdateTodoBody](t, `{}`).Request()

		Expect(err).To(BeNil())
		Expect(req.Title).To(BeNil())
		Expect(req.Description).To(BeNil())
		Expect(req.Completed).To(BeNil())
	})

	t.Run("null members are present", func(t *testing.T) {
		req, err := decode[UpdateTodoBody](t, `{"title":null,"description":null,"completed":null}`).Request()

		Expect(err).To(BeNil())
		Expect(*req.Title).To(Equal(""))
		Expect(*req.Description).To(Equal(""))
		Expect(*req.Completed).To(BeFalse())
	})

	t.Run("strings pass through untrimmed", func(t *testing.T) {
		req, err := decode[UpdateTodoBody](t, `{"title":"  B  ","completed":"yes"}`).Request()

		Expect(err).To(BeNil())
		Expect(*req.Title).To(Equal("  B  "))
		Expect(*req.Completed).To(BeTrue())
	})

	t.Run("truthy non strings are rejected", func(t *testing.T) {
		_, err := decode[UpdateTodoBody](t, `{"title":true}`).Request()
		Expect(err).To(MatchError(ErrUnsupportedType))
	})
}
