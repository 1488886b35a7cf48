package cursor_test

import (
	"encoding/base64"
	"time"

	"github.com/friendsofgo/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	paging "github.com/nrfta/ladder-paging"
	"github.com/nrfta/ladder-paging/cursor"
)

type event struct {
	At       time.Time
	Weight   float64
	Kind     string
	Official bool
	ID       int64
}

var eventKey = cursor.NewSortKey[*event]("event").
	Field("at", paging.TypeTime, cursor.DESC, func(e *event) any { return e.At }).
	Field("weight", paging.TypeFloat, cursor.ASC, func(e *event) any { return e.Weight }).
	Field("kind", paging.TypeString, cursor.ASC, func(e *event) any { return e.Kind }).
	Field("official", paging.TypeBool, cursor.DESC, func(e *event) any { return e.Official }).
	Tiebreak("id", paging.TypeInt, cursor.DESC, func(e *event) any { return e.ID }).
	Must()

func rawToken(json string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(json))
}

var _ = Describe("Cursor Encoding/Decoding", func() {
	Describe("round trip", func() {
		It("should preserve every field type", func() {
			e := &event{
				At:       time.Date(2024, 6, 15, 12, 30, 45, 123456789, time.UTC),
				Weight:   0.75,
				Kind:     "clan-join",
				Official: true,
				ID:       1 << 60,
			}
			pos, err := eventKey.Position(e)
			Expect(err).ToNot(HaveOccurred())

			for _, dir := range []paging.Direction{paging.Forward, paging.Backward} {
				tok, err := cursor.Encode(eventKey, pos, dir)
				Expect(err).ToNot(HaveOccurred())

				cur, err := cursor.Decode(tok, eventKey)
				Expect(err).ToNot(HaveOccurred())
				Expect(cur.Direction).To(Equal(dir))
				Expect(cur.Position).To(Equal(pos))
			}
		})

		It("should normalize times to UTC", func() {
			loc := time.FixedZone("CEST", 2*60*60)
			at := time.Date(2024, 6, 15, 14, 0, 0, 0, loc)

			tok, err := cursor.Encode(eventKey, []any{at, 1.5, "x", false, 7}, paging.Forward)
			Expect(err).ToNot(HaveOccurred())

			cur, err := cursor.Decode(tok, eventKey)
			Expect(err).ToNot(HaveOccurred())
			Expect(cur.Position[0]).To(Equal(at.UTC()))
			Expect(cur.Position[4]).To(Equal(int64(7)))
		})

		It("should produce URL-safe tokens", func() {
			tok, err := cursor.Encode(scoreKey, []any{int64(15), int64(10)}, paging.Forward)

			Expect(err).ToNot(HaveOccurred())
			Expect(tok).To(MatchRegexp(`^[A-Za-z0-9_-]+$`))
		})

		It("should use the documented wire format", func() {
			tok, err := cursor.Encode(scoreKey, []any{int64(1500), int64(42)}, paging.Forward)

			Expect(err).ToNot(HaveOccurred())
			Expect(tok).To(Equal(rawToken(`{"v":1,"k":"player-score","d":"f","p":[1500,42]}`)))
		})

		It("should encode a nil cursor as a nil token", func() {
			tok, err := cursor.EncodeCursor(scoreKey, nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(tok).To(BeNil())
		})
	})

	Describe("Encode", func() {
		It("should reject arity mismatches", func() {
			_, err := cursor.Encode(scoreKey, []any{int64(1)}, paging.Forward)
			Expect(errors.Is(err, paging.ErrInvalidArgument)).To(BeTrue())
		})

		It("should reject values of the wrong type", func() {
			_, err := cursor.Encode(scoreKey, []any{"high", int64(1)}, paging.Forward)
			Expect(errors.Is(err, paging.ErrInvalidArgument)).To(BeTrue())
		})

		It("should reject unknown directions", func() {
			_, err := cursor.Encode(scoreKey, []any{int64(1), int64(1)}, paging.Direction("x"))
			Expect(errors.Is(err, paging.ErrInvalidArgument)).To(BeTrue())
		})
	})

	Describe("Decode", func() {
		DescribeTable("should reject invalid tokens with ErrInvalidCursor",
			func(tok string) {
				_, err := cursor.Decode(tok, scoreKey)
				Expect(errors.Is(err, paging.ErrInvalidCursor)).To(BeTrue())
			},
			Entry("empty", ""),
			Entry("not base64", "!!!not-base64!!!"),
			Entry("padded standard base64", base64.StdEncoding.EncodeToString([]byte(`{"v":1}`))),
			Entry("not JSON", rawToken("cursor:offset:10")),
			Entry("future version", rawToken(`{"v":2,"k":"player-score","d":"f","p":[15,10]}`)),
			Entry("missing version", rawToken(`{"k":"player-score","d":"f","p":[15,10]}`)),
			Entry("other sort key", rawToken(`{"v":1,"k":"team-rating","d":"f","p":[15,10]}`)),
			Entry("unknown direction", rawToken(`{"v":1,"k":"player-score","d":"x","p":[15,10]}`)),
			Entry("too few values", rawToken(`{"v":1,"k":"player-score","d":"f","p":[15]}`)),
			Entry("too many values", rawToken(`{"v":1,"k":"player-score","d":"f","p":[15,10,3]}`)),
			Entry("string for int", rawToken(`{"v":1,"k":"player-score","d":"f","p":["15",10]}`)),
			Entry("fraction for int", rawToken(`{"v":1,"k":"player-score","d":"f","p":[15.5,10]}`)),
			Entry("null value", rawToken(`{"v":1,"k":"player-score","d":"f","p":[null,10]}`)),
		)

		It("should reject a cursor encoded for another sort key", func() {
			tok, err := cursor.Encode(teamKey, []any{int64(1500), int64(42)}, paging.Forward)
			Expect(err).ToNot(HaveOccurred())

			_, err = cursor.Decode(tok, scoreKey)
			Expect(errors.Is(err, paging.ErrInvalidCursor)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring(`"team-rating"`))
		})

		It("should keep int64 ids above 2^53 exact", func() {
			big := int64(1<<53 + 1)
			tok, err := cursor.Encode(scoreKey, []any{int64(1), big}, paging.Backward)
			Expect(err).ToNot(HaveOccurred())

			cur, err := cursor.Decode(tok, scoreKey)
			Expect(err).ToNot(HaveOccurred())
			Expect(cur.Position[1]).To(Equal(big))
		})

		It("should reject malformed times", func() {
			tok := rawToken(`{"v":1,"k":"event","d":"f","p":["yesterday",1,"x",true,1]}`)

			_, err := cursor.Decode(tok, eventKey)
			Expect(errors.Is(err, paging.ErrInvalidCursor)).To(BeTrue())
		})
	})
})
