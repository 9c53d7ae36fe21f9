package orchard

import (
	"strings"
	"testing"

	"github.com/pbanos/orchard/dataset"
	"github.com/pbanos/orchard/feature"
	"github.com/stretchr/testify/require"
)

const tennis = `
Sunny Hot High False No
Sunny Hot High True No
Overcast Hot High False Yes
Rainy Mild High False Yes
Rainy Cool Normal False Yes
Rainy Cool Normal True No
Overcast Cool Normal True Yes
Sunny Mild High False No
Sunny Cool Normal False Yes
Rainy Mild Normal False Yes
Sunny Mild Normal True Yes
Overcast Mild High True Yes
Overcast Hot Normal False Yes
Rainy Mild High True No
`

// tennisDataset returns the play tennis dataset with its features in the
// order Outlook, Temperature, Humidity, Windy, Play.
func tennisDataset(t *testing.T) dataset.Dataset {
	features := []feature.Feature{
		feature.NewTextFeature("Outlook"),
		feature.NewTextFeature("Temperature"),
		feature.NewTextFeature("Humidity"),
		feature.NewTextFeature("Windy"),
		feature.NewTextFeature("Play"),
	}
	return textDataset(t, features, tennis)
}

// weatherDataset returns a dataset where Weather determines Play.
func weatherDataset(t *testing.T) dataset.Dataset {
	features := []feature.Feature{feature.NewTextFeature("Weather"), feature.NewTextFeature("Play")}
	return textDataset(t, features, "Sun Yes\nSun Yes\nRain No\nRain No\n")
}

func textDataset(t *testing.T, features []feature.Feature, content string) dataset.Dataset {
	var rows [][]interface{}
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		var row []interface{}
		for _, v := range strings.Fields(line) {
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	ds, err := dataset.FromRows(features, rows)
	require.NoError(t, err)
	return ds
}
