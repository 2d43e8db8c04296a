package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	strokesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "editor",
		Name:      "brush_strokes_total",
		Help:      "Количество применённых мазков кисти по инструментам.",
	}, []string{"tool"})

	objectsPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "editor",
		Name:      "objects_placed_total",
		Help:      "Количество размещённых объектов.",
	})

	historyStepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "editor",
		Name:      "history_steps_total",
		Help:      "Шаги отмены и повтора карт высот.",
	}, []string{"direction"})

	importsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "editor",
		Name:      "imports_total",
		Help:      "Количество импортированных архивов и папок карты.",
	})
)
