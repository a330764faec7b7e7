// Package analysis computes aggregate spending figures over projected
// ticket rows.
package analysis

import (
	"sort"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/montanaflynn/stats"

	"github.com/aruiz/ticket-tracker/internal/ticket"
)

const (
	defaultTopN = 10

	dateLayout  = "2006-01-02 15:04"
	monthLayout = "2006-01"
)

// PriceVariation describes how a product's unit price moved between its
// first and last appearance in the data.
type PriceVariation struct {
	ProductName      string    `json:"product_name"`
	InitialUnitPrice float64   `json:"initial_unit_price"`
	FinalUnitPrice   float64   `json:"final_unit_price"`
	DiffUnitPrice    float64   `json:"diff_unit_price"`
	InitialDate      time.Time `json:"initial_date"`
	FinalDate        time.Time `json:"final_date"`
	DiffDays         float64   `json:"diff_days"`
}

// Result is the aggregate spending summary for a set of tickets.
type Result struct {
	NumShoppings          int                `json:"num_shoppings"`
	TotalSpent            float64            `json:"total_spent"`
	MeanTicketCost        float64            `json:"mean_ticket_cost"`
	AvgShoppingsPerMonth  float64            `json:"avg_shoppings_per_month"`
	AvgCostPerMonth       float64            `json:"avg_cost_per_month"`
	PopularProducts       map[string]float64 `json:"popular_products"`
	TopPricesReductions   []PriceVariation   `json:"top_prices_reductions"`
	TopPricesIncreases    []PriceVariation   `json:"top_prices_increases"`
	MostFrequentProducts  map[string]float64 `json:"most_frequent_products"`
	MostExpensiveProducts map[string]float64 `json:"most_expensive_products"`
	CheapestProducts      map[string]float64 `json:"cheapest_products"`
}

// PricePoint is one step of a product's unit price history.
type PricePoint struct {
	Date      time.Time `json:"date"`
	UnitPrice float64   `json:"unit_price"`
}

// Frame builds the flat dataframe the aggregations run on. Column names
// follow the export layout; dates are formatted so lexical order equals
// chronological order.
func Frame(rows []ticket.Row) dataframe.DataFrame {
	n := len(rows)
	numbers := make([]string, n)
	dates := make([]string, n)
	cards := make([]string, n)
	totals := make([]float64, n)
	names := make([]string, n)
	qtys := make([]float64, n)
	unitPrices := make([]float64, n)
	totalPrices := make([]float64, n)
	for i, r := range rows {
		numbers[i] = r.TicketNumber
		dates[i] = r.Date.Format(dateLayout)
		cards[i] = r.CreditCard
		totals[i] = r.TotalPrice
		names[i] = r.ProductName
		qtys[i] = r.ProductQty
		unitPrices[i] = r.ProductUnitPrice
		totalPrices[i] = r.ProductTotalPrice
	}
	return dataframe.New(
		series.New(numbers, series.String, "Ticket_Number"),
		series.New(dates, series.String, "Date"),
		series.New(cards, series.String, "Credit_Card"),
		series.New(totals, series.Float, "Total_Price"),
		series.New(names, series.String, "Product_Name"),
		series.New(qtys, series.Float, "Product_Qty"),
		series.New(unitPrices, series.Float, "Product_Unit_Price"),
		series.New(totalPrices, series.Float, "Product_Total_Price"),
	)
}

// Analyze computes the full spending summary. Rows are re-sorted by date
// and product name first, so first/last aggregations are chronological.
func Analyze(rows []ticket.Row, topN int) *Result {
	if topN <= 0 {
		topN = defaultTopN
	}
	if len(rows) == 0 {
		return &Result{
			PopularProducts:       map[string]float64{},
			TopPricesReductions:   []PriceVariation{},
			TopPricesIncreases:    []PriceVariation{},
			MostFrequentProducts:  map[string]float64{},
			MostExpensiveProducts: map[string]float64{},
			CheapestProducts:      map[string]float64{},
		}
	}

	sorted := make([]ticket.Row, len(rows))
	copy(sorted, rows)
	ticket.SortRows(sorted)

	df := Frame(sorted)

	totalSpent, _ := stats.Sum(df.Col("Product_Total_Price").Float())
	avgShoppings, avgCost := monthlyAverages(sorted)
	reductions, increases := priceVariations(sorted, topN)

	return &Result{
		NumShoppings:          countTickets(sorted),
		TotalSpent:            totalSpent,
		MeanTicketCost:        meanTicketCost(sorted),
		AvgShoppingsPerMonth:  avgShoppings,
		AvgCostPerMonth:       avgCost,
		PopularProducts:       popularProducts(df, topN),
		TopPricesReductions:   reductions,
		TopPricesIncreases:    increases,
		MostFrequentProducts:  frequentProducts(sorted, topN),
		MostExpensiveProducts: unitPriceExtremes(df, dataframe.Aggregation_MAX, topN),
		CheapestProducts:      unitPriceExtremes(df, dataframe.Aggregation_MIN, topN),
	}
}

// PriceEvolution returns the mean unit price of one product per purchase
// date, oldest first. An unknown product yields an empty history.
func PriceEvolution(rows []ticket.Row, productName string) []PricePoint {
	if len(rows) == 0 {
		return []PricePoint{}
	}
	df := Frame(rows)
	filtered := df.Filter(dataframe.F{
		Colname:    "Product_Name",
		Comparator: series.Eq,
		Comparando: productName,
	})
	if filtered.Err != nil || filtered.Nrow() == 0 {
		return []PricePoint{}
	}
	grouped := filtered.GroupBy("Date").Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_MEAN},
		[]string{"Product_Unit_Price"},
	).Arrange(dataframe.Sort("Date"))

	dates := grouped.Col("Date").Records()
	prices := grouped.Col("Product_Unit_Price_MEAN").Float()
	points := make([]PricePoint, 0, len(dates))
	for i := range dates {
		d, err := time.Parse(dateLayout, dates[i])
		if err != nil {
			continue
		}
		points = append(points, PricePoint{Date: d, UnitPrice: prices[i]})
	}
	return points
}

// popularProducts sums quantities per product and keeps the topN biggest.
func popularProducts(df dataframe.DataFrame, topN int) map[string]float64 {
	grouped := df.GroupBy("Product_Name").Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_SUM},
		[]string{"Product_Qty"},
	).Arrange(dataframe.RevSort("Product_Qty_SUM"))
	return headMap(grouped, "Product_Name", "Product_Qty_SUM", topN)
}

// unitPriceExtremes keeps the topN products by max (descending) or min
// (ascending) unit price.
func unitPriceExtremes(df dataframe.DataFrame, typ dataframe.AggregationType, topN int) map[string]float64 {
	col := "Product_Unit_Price_" + typ.String()
	grouped := df.GroupBy("Product_Name").Aggregation(
		[]dataframe.AggregationType{typ},
		[]string{"Product_Unit_Price"},
	)
	if typ == dataframe.Aggregation_MAX {
		grouped = grouped.Arrange(dataframe.RevSort(col))
	} else {
		grouped = grouped.Arrange(dataframe.Sort(col))
	}
	return headMap(grouped, "Product_Name", col, topN)
}

// headMap reads the first n (key, value) pairs of an aggregated frame.
func headMap(df dataframe.DataFrame, keyCol, valCol string, n int) map[string]float64 {
	if df.Err != nil {
		return map[string]float64{}
	}
	keys := df.Col(keyCol).Records()
	vals := df.Col(valCol).Float()
	out := make(map[string]float64, n)
	for i := 0; i < len(keys) && i < len(vals) && i < n; i++ {
		out[keys[i]] = vals[i]
	}
	return out
}

// countTickets counts distinct ticket numbers.
func countTickets(rows []ticket.Row) int {
	seen := make(map[string]struct{})
	for _, r := range rows {
		seen[r.TicketNumber] = struct{}{}
	}
	return len(seen)
}

// meanTicketCost averages the printed total of each distinct ticket.
func meanTicketCost(rows []ticket.Row) float64 {
	totals := make(map[string]float64)
	for _, r := range rows {
		if _, ok := totals[r.TicketNumber]; !ok {
			totals[r.TicketNumber] = r.TotalPrice
		}
	}
	values := make([]float64, 0, len(totals))
	for _, v := range totals {
		values = append(values, v)
	}
	mean, _ := stats.Mean(values)
	return mean
}

// monthlyAverages buckets rows by calendar month and averages shoppings
// and spend per bucket.
func monthlyAverages(rows []ticket.Row) (avgShoppings, avgCost float64) {
	tickets := make(map[string]map[string]struct{})
	costs := make(map[string]float64)
	for _, r := range rows {
		month := r.Date.Format(monthLayout)
		if tickets[month] == nil {
			tickets[month] = make(map[string]struct{})
		}
		tickets[month][r.TicketNumber] = struct{}{}
		costs[month] += r.ProductTotalPrice
	}
	counts := make([]float64, 0, len(tickets))
	for _, set := range tickets {
		counts = append(counts, float64(len(set)))
	}
	sums := make([]float64, 0, len(costs))
	for _, c := range costs {
		sums = append(sums, c)
	}
	avgShoppings, _ = stats.Mean(counts)
	avgCost, _ = stats.Mean(sums)
	return avgShoppings, avgCost
}

// frequentProducts reports how often a product shows up, as a percentage
// of the number of shoppings.
func frequentProducts(rows []ticket.Row, topN int) map[string]float64 {
	counts := make(map[string]float64)
	order := make([]string, 0)
	for _, r := range rows {
		if _, ok := counts[r.ProductName]; !ok {
			order = append(order, r.ProductName)
		}
		counts[r.ProductName]++
	}
	numTickets := float64(countTickets(rows))
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	out := make(map[string]float64, topN)
	for i := 0; i < len(order) && i < topN; i++ {
		out[order[i]] = counts[order[i]] / numTickets * 100
	}
	return out
}

// priceVariations diffs each product's first and last unit price over the
// date-sorted rows and keeps the topN drops and rises.
func priceVariations(rows []ticket.Row, topN int) (reductions, increases []PriceVariation) {
	byProduct := make(map[string]*PriceVariation)
	order := make([]string, 0)
	for _, r := range rows {
		v, ok := byProduct[r.ProductName]
		if !ok {
			v = &PriceVariation{
				ProductName:      r.ProductName,
				InitialUnitPrice: r.ProductUnitPrice,
				InitialDate:      r.Date,
			}
			byProduct[r.ProductName] = v
			order = append(order, r.ProductName)
		}
		v.FinalUnitPrice = r.ProductUnitPrice
		v.FinalDate = r.Date
	}

	all := make([]PriceVariation, 0, len(order))
	for _, name := range order {
		v := byProduct[name]
		v.DiffUnitPrice = v.FinalUnitPrice - v.InitialUnitPrice
		v.DiffDays = v.FinalDate.Sub(v.InitialDate).Hours() / 24
		all = append(all, *v)
	}

	increases = append([]PriceVariation(nil), all...)
	sort.SliceStable(increases, func(i, j int) bool {
		return increases[i].DiffUnitPrice > increases[j].DiffUnitPrice
	})
	reductions = append([]PriceVariation(nil), all...)
	sort.SliceStable(reductions, func(i, j int) bool {
		return reductions[i].DiffUnitPrice < reductions[j].DiffUnitPrice
	})

	if len(increases) > topN {
		increases = increases[:topN]
	}
	if len(reductions) > topN {
		reductions = reductions[:topN]
	}
	return reductions, increases
}
