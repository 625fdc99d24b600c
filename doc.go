// Package engagement backtests an equity strategy driven by social engagement.
//
// Every month, symbols are ranked by their mean engagement ratio (comments per like)
// and the best ones are held, equally weighted, during the following month. The
// resulting daily returns are compounded and compared to a benchmark index.
//
// The pipeline is made of small functions that can be used on their own:
//   - Signal: Filter, AggregateMonthly, Rank and Select build the monthly Selection.
//   - Prices: ValidTickers, FetchReturns and FetchBenchmark query a PriceProvider.
//   - Returns: Compose averages the selected returns within each holding month.
//   - Comparison: Compare aligns the portfolio with its benchmark and compounds both.
//
// Run chains them all. Providers live in the eodhd and yahoo packages; the chart
// and renderer packages turn a Backtest into documents, and the ers command wires
// everything together.
package engagement
