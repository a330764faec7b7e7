package tracker

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Server", func() {
	var (
		store  *mockStore
		server *Server
	)

	BeforeEach(func() {
		store = newMockStore()
		service := NewServiceWithDeps(store, &fakeExtractor{}, &fixedIDGenerator{id: "session-1"}, &fixedTimeSource{now: time.Now()})
		server = NewServerWithMux(service, BasicAuth{}, "", http.NewServeMux())
	})

	do := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		return rec
	}

	multipartUpload := func(files map[string]string) *http.Request {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		for name, content := range files {
			part, err := writer.CreateFormFile("files", name)
			Expect(err).NotTo(HaveOccurred())
			_, err = part.Write([]byte(content))
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(writer.Close()).To(Succeed())

		req := httptest.NewRequest("POST", "/api/upload-tickets", &body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		return req
	}

	Describe("POST /api/upload-tickets", func() {
		It("creates a session from the uploaded documents", func() {
			rec := do(multipartUpload(map[string]string{"a.pdf": validReceiptText}))

			Expect(rec.Code).To(Equal(http.StatusCreated))
			var report UploadReport
			Expect(json.Unmarshal(rec.Body.Bytes(), &report)).To(Succeed())
			Expect(report.SessionID).To(Equal("session-1"))
			Expect(report.Parsed).To(Equal(1))
			Expect(store.sessions).To(HaveKey("session-1"))
		})

		It("reports failures when nothing parses", func() {
			rec := do(multipartUpload(map[string]string{"broken.pdf": brokenReceiptText}))

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))
			var body map[string]any
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body).To(HaveKey("error"))
			Expect(body["failures"]).To(HaveLen(1))
		})

		It("rejects an empty upload", func() {
			rec := do(multipartUpload(nil))
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("session endpoints", func() {
		BeforeEach(func() {
			rec := do(multipartUpload(map[string]string{
				"a.pdf": validReceiptText,
				"b.pdf": bulkReceiptText,
			}))
			Expect(rec.Code).To(Equal(http.StatusCreated))
		})

		Describe("GET /api/get-tickets-analysis", func() {
			It("returns the spending summary", func() {
				rec := do(httptest.NewRequest("GET", "/api/get-tickets-analysis?session_id=session-1", nil))

				Expect(rec.Code).To(Equal(http.StatusOK))
				var body map[string]any
				Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
				Expect(body["num_shoppings"]).To(BeEquivalentTo(2))
			})

			It("returns 404 for an unknown session", func() {
				rec := do(httptest.NewRequest("GET", "/api/get-tickets-analysis?session_id=missing", nil))
				Expect(rec.Code).To(Equal(http.StatusNotFound))
			})

			It("returns 400 without a session id", func() {
				rec := do(httptest.NewRequest("GET", "/api/get-tickets-analysis", nil))
				Expect(rec.Code).To(Equal(http.StatusBadRequest))
			})
		})

		Describe("GET /api/get-product-names", func() {
			It("returns the names", func() {
				rec := do(httptest.NewRequest("GET", "/api/get-product-names?session_id=session-1", nil))

				Expect(rec.Code).To(Equal(http.StatusOK))
				var names []string
				Expect(json.Unmarshal(rec.Body.Bytes(), &names)).To(Succeed())
				Expect(names).To(ConsistOf("Apple", "Banana"))
			})
		})

		Describe("GET /api/price-evolution", func() {
			It("returns the product's history", func() {
				rec := do(httptest.NewRequest("GET", "/api/price-evolution?session_id=session-1&product_name=Banana", nil))

				Expect(rec.Code).To(Equal(http.StatusOK))
				var points []map[string]any
				Expect(json.Unmarshal(rec.Body.Bytes(), &points)).To(Succeed())
				Expect(points).To(HaveLen(1))
			})

			It("returns 400 without a product name", func() {
				rec := do(httptest.NewRequest("GET", "/api/price-evolution?session_id=session-1", nil))
				Expect(rec.Code).To(Equal(http.StatusBadRequest))
			})
		})

		Describe("GET /api/export-tickets", func() {
			It("streams an XLSX attachment", func() {
				rec := do(httptest.NewRequest("GET", "/api/export-tickets?session_id=session-1", nil))

				Expect(rec.Code).To(Equal(http.StatusOK))
				Expect(rec.Header().Get("Content-Type")).To(Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
				Expect(rec.Body.Len()).To(BeNumerically(">", 0))
			})
		})

		Describe("POST /api/delete-session", func() {
			It("clears the session", func() {
				rec := do(httptest.NewRequest("POST", "/api/delete-session?session_id=session-1", nil))

				Expect(rec.Code).To(Equal(http.StatusOK))
				Expect(store.sessions).NotTo(HaveKey("session-1"))
			})

			It("returns 404 for an unknown session", func() {
				rec := do(httptest.NewRequest("POST", "/api/delete-session?session_id=missing", nil))
				Expect(rec.Code).To(Equal(http.StatusNotFound))
			})
		})
	})

	Describe("GET /api/local-tickets", func() {
		It("returns 404 when no folder is configured", func() {
			rec := do(httptest.NewRequest("GET", "/api/local-tickets", nil))
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			service := NewServiceWithDeps(store, &fakeExtractor{}, &fixedIDGenerator{id: "session-1"}, &fixedTimeSource{now: time.Now()})
			server = NewServerWithMux(service, BasicAuth{Username: "admin", Password: "secret"}, "", http.NewServeMux())
		})

		It("rejects requests without credentials", func() {
			rec := do(httptest.NewRequest("GET", "/api/get-product-names?session_id=session-1", nil))

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(rec.Header().Get("WWW-Authenticate")).To(ContainSubstring("Basic"))
		})

		It("rejects wrong credentials", func() {
			req := httptest.NewRequest("GET", "/api/get-product-names?session_id=session-1", nil)
			req.SetBasicAuth("admin", "wrong")
			Expect(do(req).Code).To(Equal(http.StatusUnauthorized))
		})

		It("accepts valid credentials", func() {
			req := httptest.NewRequest("GET", "/api/get-product-names?session_id=session-1", nil)
			req.SetBasicAuth("admin", "secret")
			// Session does not exist yet, auth passed through to the handler
			Expect(do(req).Code).To(Equal(http.StatusNotFound))
		})
	})
})
