package response

import (
	"encoding/json"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func TestISOTime_AlwaysMilliseconds(t *testing.T) {
	RegisterTestingT(t)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	data, err := json.Marshal(ISOTime(at))

	Expect(err).To(BeNil())
	Expect(string(data)).To(Equal(`"2024-05-01T12:00:00.000Z"`))

	var decoded ISOTime
	Expect(json.Unmarshal(data, &decoded)).To(Succeed())
	Expect(decoded.Time().Equal(at)).To(BeTrue())
}

func TestISOTime_ConvertsToUTC(t *testing.T) {
	RegisterTestingT(t)

	at := time.Date(2024, 5, 1, 9, 30, 0, 123000000, time.FixedZone("BRT", -3*60*60))
	data, _ := json.Marshal(ISOTime(at))

	Expect(string(data)).To(Equal(`"2024-05-01T12:30:00.123Z"`))
}
