package ticket

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Project", func() {
	var (
		tickets []*Ticket
		rows    []Row
	)

	BeforeEach(func() {
		tickets = []*Ticket{
			{
				Number:     "001-2",
				TotalCost:  3.26,
				CreditCard: "1234",
				Date:       time.Date(2024, 2, 1, 18, 30, 0, 0, time.UTC),
				Products: []Product{
					{Qty: 0.800, Name: "Banana", UnitPrice: 1.20, TotalPrice: 0.96},
					{Qty: 1, Name: "Bread", UnitPrice: 2.30, TotalPrice: 2.30},
				},
			},
			{
				Number:     "001-1",
				TotalCost:  4.50,
				CreditCard: "1234",
				Date:       time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
				Products: []Product{
					{Qty: 3, Name: "Apple", UnitPrice: 1.50, TotalPrice: 4.50},
				},
			},
		}
	})

	JustBeforeEach(func() {
		rows = Project(tickets)
	})

	It("produces one row per (ticket, product) pair", func() {
		Expect(rows).To(HaveLen(3))
	})

	It("duplicates the ticket fields onto every row", func() {
		Expect(rows[0].TicketNumber).To(Equal("001-2"))
		Expect(rows[0].TotalPrice).To(Equal(3.26))
		Expect(rows[1].TicketNumber).To(Equal("001-2"))
		Expect(rows[2].TicketNumber).To(Equal("001-1"))
	})

	It("carries the product fields", func() {
		Expect(rows[0].ProductName).To(Equal("Banana"))
		Expect(rows[0].ProductQty).To(Equal(0.800))
		Expect(rows[0].ProductUnitPrice).To(Equal(1.20))
		Expect(rows[0].ProductTotalPrice).To(Equal(0.96))
	})

	It("preserves input order", func() {
		Expect(rows[0].ProductName).To(Equal("Banana"))
		Expect(rows[1].ProductName).To(Equal("Bread"))
		Expect(rows[2].ProductName).To(Equal("Apple"))
	})

	It("is pure: projecting twice yields identical rows", func() {
		again := Project(tickets)
		Expect(again).To(Equal(rows))
	})

	Describe("SortRows", func() {
		It("orders by date then product name", func() {
			SortRows(rows)
			Expect(rows[0].ProductName).To(Equal("Apple"))
			Expect(rows[1].ProductName).To(Equal("Banana"))
			Expect(rows[2].ProductName).To(Equal("Bread"))
		})
	})
})
