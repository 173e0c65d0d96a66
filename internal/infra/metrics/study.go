package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(roadmapsGenerated, tracksSelected, studyEvents, studyMinutes, streaksDecayed, chatMessages)
}

var (
	roadmapsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadmaps_generated_total",
			Help: "Roadmaps generated, by skill level.",
		},
		[]string{"skill_level"},
	)

	tracksSelected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracks_selected_total",
			Help: "Track selections (including restarts), by track.",
		},
		[]string{"track"},
	)

	studyEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "study_events_total",
			Help: "Progress updates, by whether a task was completed.",
		},
		[]string{"completed"},
	)

	studyMinutes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "study_minutes_total",
		Help: "Minutes of study reported through progress updates.",
	})

	streaksDecayed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streaks_decayed_total",
		Help: "Streaks reset to zero when progress was read after a missed day.",
	})

	chatMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Chat turns answered, by mode and outcome.",
		},
		[]string{"mode", "status"},
	)
)

func IncRoadmapGenerated(level string) { roadmapsGenerated.WithLabelValues(norm(level)).Inc() }

func IncTrackSelected(track string) { tracksSelected.WithLabelValues(norm(track)).Inc() }

func ObserveStudyEvent(completed bool, minutes int) {
	label := "false"
	if completed {
		label = "true"
	}
	studyEvents.WithLabelValues(label).Inc()
	studyMinutes.Add(float64(minutes))
}

func IncStreakDecayed() { streaksDecayed.Inc() }

func IncChatMessage(mode, status string) { chatMessages.WithLabelValues(norm(mode), norm(status)).Inc() }
