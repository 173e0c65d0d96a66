package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(storeEntries) }

var storeEntries = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "store_entries",
		Help: "Entries held in the in-process stores (roadmaps, progress, chat_users).",
	},
	[]string{"store"},
)

func SetStoreEntries(store string, n int) {
	storeEntries.WithLabelValues(norm(store)).Set(float64(n))
}
