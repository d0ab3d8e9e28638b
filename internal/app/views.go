package app

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/claimrisk/claimrisk"
)

func (u *uiState) buildEDA() fyne.CanvasObject {
	stats := u.service.Stats()

	clusterRows := container.NewVBox()
	for _, c := range stats.ClaimsByCluster {
		clusterRows.Add(clusterBar(c))
	}

	box := boxTable([]string{"No claim", "Claim"}, []claimrisk.BoxStats{stats.Tenure.NoClaim, stats.Tenure.Claim})

	return container.NewVBox(
		widget.NewLabelWithStyle("Data Insights & Trends", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Aggregates of the features that drive insurance risk."),
		widget.NewCard("Claims by Area Cluster", "share of policies with a claim", clusterRows),
		widget.NewCard("Impact of Tenure on Claims", "policy tenure by outcome", box),
	)
}

func clusterBar(c claimrisk.ClusterClaims) fyne.CanvasObject {
	bar := widget.NewProgressBar()
	total := c.Total()
	if total > 0 {
		bar.SetValue(float64(c.Claims) / float64(total))
	}
	bar.TextFormatter = func() string {
		return fmt.Sprintf("%d claims / %d no claim", c.Claims, c.NoClaims)
	}
	label := widget.NewLabel(c.Cluster)
	return container.NewBorder(nil, nil, label, nil, bar)
}

func boxTable(outcomes []string, stats []claimrisk.BoxStats) fyne.CanvasObject {
	headers := []string{"Outcome", "Count", "Min", "Q1", "Median", "Q3", "Max"}
	cells := make([][]string, len(stats))
	for i, b := range stats {
		cells[i] = []string{
			outcomes[i],
			fmt.Sprintf("%d", b.Count),
			fmt.Sprintf("%.3f", b.Min),
			fmt.Sprintf("%.3f", b.Q1),
			fmt.Sprintf("%.3f", b.Median),
			fmt.Sprintf("%.3f", b.Q3),
			fmt.Sprintf("%.3f", b.Max),
		}
	}
	grid := container.NewGridWithColumns(len(headers))
	for _, h := range headers {
		grid.Add(widget.NewLabelWithStyle(h, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}))
	}
	for _, row := range cells {
		for _, v := range row {
			grid.Add(widget.NewLabelWithStyle(v, fyne.TextAlignCenter, fyne.TextStyle{}))
		}
	}
	return grid
}

func (u *uiState) buildDocs() fyne.CanvasObject {
	doc := widget.NewRichTextFromMarkdown(u.service.Docs())
	doc.Wrapping = fyne.TextWrapWord
	return doc
}
