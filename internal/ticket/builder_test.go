package ticket

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseFragments", func() {
	var (
		fragments []string
		result    *Ticket
		err       error
	)

	JustBeforeEach(func() {
		result, err = ParseFragments(fragments)
	})

	When("parsing a receipt with one standard product", func() {
		BeforeEach(func() {
			fragments = []string{
				"3 Apple\n1,50\n4,50",
				"Importe: 4,50 €",
				"FACTURA SIMPLIFICADA: 001-1\n",
				"01/01/2024 10:00",
				"TARJ. BANCARIA: **** **** **** 1234\n",
			}
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should extract the product", func() {
			Expect(result.Products).To(HaveLen(1))
			Expect(result.Products[0]).To(Equal(Product{
				Qty: 3, Name: "Apple", UnitPrice: 1.50, TotalPrice: 4.50,
			}))
		})

		It("should extract the scalar fields", func() {
			Expect(result.Number).To(Equal("001-1"))
			Expect(result.TotalCost).To(Equal(4.50))
			Expect(result.CreditCard).To(Equal("1234"))
			Expect(result.Date).To(Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)))
		})
	})

	When("parsing a receipt with a bulk product split across fragments", func() {
		BeforeEach(func() {
			fragments = []string{
				"2 Banana\n",
				"0,800 kg\n1,20 €/kg\n0,96",
				"Importe: 0,96 €",
				"FACTURA SIMPLIFICADA: 001-2\n",
				"02/01/2024 18:30",
			}
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should assemble one product from both fragments", func() {
			Expect(result.Products).To(HaveLen(1))
			Expect(result.Products[0]).To(Equal(Product{
				Qty: 0.800, Name: "Banana", UnitPrice: 1.20, TotalPrice: 0.96,
			}))
		})
	})

	When("a weight fragment arrives with no preceding name", func() {
		BeforeEach(func() {
			fragments = []string{
				"0,800 kg\n1,20 €/kg\n0,96",
				"Importe: 0,96 €",
			}
		})

		It("returns ErrMalformedBulkSequence", func() {
			Expect(err).To(MatchError(ErrMalformedBulkSequence))
		})

		It("produces no ticket", func() {
			Expect(result).To(BeNil())
		})
	})

	When("two bulk names arrive before a weight fragment", func() {
		BeforeEach(func() {
			fragments = []string{
				"1 Oranges\n",
				"2 Banana\n",
				"0,800 kg\n1,20 €/kg\n0,96",
			}
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("uses the last name", func() {
			Expect(result.Products).To(HaveLen(1))
			Expect(result.Products[0].Name).To(Equal("Banana"))
		})
	})

	When("a packaged product prints its kg size in the name", func() {
		BeforeEach(func() {
			fragments = []string{
				"FACTURA SIMPLIFICADA: 001-4\n",
				"1 Arroz redondo 1 kg\n2,30",
				"Importe: 2,30 €",
				"03/01/2024 11:45",
			}
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("treats it as a standard product", func() {
			Expect(result.Products).To(HaveLen(1))
			Expect(result.Products[0]).To(Equal(Product{
				Qty: 1, Name: "Arroz redondo 1 kg", UnitPrice: 2.30, TotalPrice: 2.30,
			}))
		})

		It("yields a ticket that validates", func() {
			Expect(Validate(result)).To(Succeed())
		})
	})

	When("a scalar marker appears twice", func() {
		BeforeEach(func() {
			fragments = []string{
				"Importe: 4,50 €",
				"Importe: 9,99 €",
			}
		})

		It("keeps the last match", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.TotalCost).To(Equal(9.99))
		})
	})

	When("fragments match nothing", func() {
		BeforeEach(func() {
			fragments = []string{
				"MERCADONA, S.A.\nA-46103834\n",
				"TELÉFONO: 900 500 103\n",
				"Gracias por su visita\n",
			}
		})

		It("ignores them silently", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Products).To(BeEmpty())
			Expect(result.Number).To(BeEmpty())
		})
	})

	When("an address footer looks like a bulk name", func() {
		BeforeEach(func() {
			fragments = []string{
				"3 Apple\n1,50\n4,50",
				"Importe: 4,50 €",
				"28001 MADRID\n",
			}
		})

		It("arms nothing that survives to the ticket", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Products).To(HaveLen(1))
			Expect(result.Products[0].Name).To(Equal("Apple"))
		})
	})

	When("a mixed receipt has standard and bulk products", func() {
		BeforeEach(func() {
			fragments = []string{
				"FACTURA SIMPLIFICADA: 001-3\n",
				"3 Apple\n1,50\n4,50",
				"1 Oranges\n",
				"1,500 kg\n2,00 €/kg\n3,00",
				"1 Bread\n2,30",
				"Importe: 9,80 €",
				"15/02/2024 09:12",
			}
		})

		It("keeps products in print order", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Products).To(HaveLen(3))
			Expect(result.Products[0].Name).To(Equal("Apple"))
			Expect(result.Products[1].Name).To(Equal("Oranges"))
			Expect(result.Products[2].Name).To(Equal("Bread"))
		})

		It("populates the bulk product atomically", func() {
			Expect(result.Products[1]).To(Equal(Product{
				Qty: 1.500, Name: "Oranges", UnitPrice: 2.00, TotalPrice: 3.00,
			}))
		})
	})
})
