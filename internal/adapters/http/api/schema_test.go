package api

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSchemas(t *testing.T) {
	Convey("Given the compiled request schemas", t, func() {
		Convey("Timestamps must be RFC 3339 date-times", func() {
			So(validateBody(submissionSchema, []byte(`{"employee_id":"e","form_type":"personal","ts":"2026-10-15T09:30:00Z"}`)), ShouldBeNil)
			So(validateBody(submissionSchema, []byte(`{"employee_id":"e","form_type":"personal","ts":"yesterday"}`)), ShouldNotBeNil)
			So(validateBody(transactionSchema, []byte(`{"employee_id":"e","category":"food","amount":5,"transaction_date":"2026-10-01T00:00:00Z"}`)), ShouldBeNil)
			So(validateBody(transactionSchema, []byte(`{"employee_id":"e","category":"food","amount":5,"transaction_date":"last week"}`)), ShouldNotBeNil)
		})

		Convey("Numeric inputs are bounded", func() {
			So(validateBody(submissionSchema, []byte(`{"employee_id":"e","form_type":"office","office":{"commute_distance":1000000,"printer_pages":100000}}`)), ShouldBeNil)
			So(validateBody(submissionSchema, []byte(`{"employee_id":"e","form_type":"office","office":{"commute_distance":1e308}}`)), ShouldNotBeNil)
			So(validateBody(submissionSchema, []byte(`{"employee_id":"e","form_type":"office","office":{"hotel_nights":100001}}`)), ShouldNotBeNil)
			So(validateBody(transactionSchema, []byte(`{"employee_id":"e","category":"food","amount":1e300}`)), ShouldNotBeNil)
		})
	})
}
