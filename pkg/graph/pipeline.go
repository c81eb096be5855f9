package graph

import (
	"context"
	"fmt"

	"github.com/athapong/kg-extract/pkg/graph/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var (
	pipelineProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_processing_duration_seconds",
			Help: "Time spent in each extraction stage",
		},
		[]string{"stage"},
	)

	documentProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_documents_processed_total",
			Help: "Total number of documents processed",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(pipelineProcessingDuration)
	prometheus.MustRegister(documentProcessedTotal)
}

// Result holds everything extracted from one document
type Result struct {
	DocumentID string
	Entities   *Entities
	Relations  *Relations
	Graph      *Graph
}

// Extractor runs text through a Parser and then the entity collector and
// relation extractor, in that order.
type Extractor struct {
	parser Parser
	logger *logrus.Logger
}

// ExtractorOption configures an Extractor
type ExtractorOption func(*Extractor)

// WithLogger sets the logger used by the extractor
func WithLogger(logger *logrus.Logger) ExtractorOption {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates an extractor backed by parser
func NewExtractor(parser Parser, opts ...ExtractorOption) *Extractor {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	e := &Extractor{
		parser: parser,
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses text and extracts its entities, relations and graph
func (e *Extractor) Extract(ctx context.Context, text string) (*Result, error) {
	if e.parser == nil {
		return nil, fmt.Errorf("no parser configured")
	}

	docID := uuid.New().String()
	log := e.logger.WithFields(logrus.Fields{
		"doc_id": docID,
		"parser": e.parser.Name(),
	})
	log.WithField("content_length", len(text)).Info("Processing document")

	timer := prometheus.NewTimer(pipelineProcessingDuration.WithLabelValues("parse"))
	doc, err := e.parser.Parse(ctx, text)
	timer.ObserveDuration()
	if err != nil {
		metrics.ParserErrors.WithLabelValues(e.parser.Name()).Inc()
		documentProcessedTotal.WithLabelValues("error").Inc()
		log.WithError(err).Error("Failed to parse document")
		return nil, fmt.Errorf("parser %q failed: %w", e.parser.Name(), err)
	}
	if doc == nil {
		doc = NewDocument(text, nil, nil)
	}
	doc.ID = docID

	timer = prometheus.NewTimer(pipelineProcessingDuration.WithLabelValues("entities"))
	entities := CollectEntities(doc)
	timer.ObserveDuration()

	for _, span := range doc.Entities {
		metrics.EntitiesExtracted.WithLabelValues(span.Label).Inc()
	}

	timer = prometheus.NewTimer(pipelineProcessingDuration.WithLabelValues("relations"))
	ex := extractRelations(doc)
	timer.ObserveDuration()

	for _, c := range ex.dropped {
		log.WithFields(logrus.Fields{
			"subject": c.Subject,
			"verb":    c.Verb,
		}).Debug("Dropping subject-verb pair without direct object")
	}

	triples := len(ex.relations.Triples())
	metrics.RelationsExtracted.Add(float64(triples))
	metrics.DroppedCandidates.Add(float64(len(ex.dropped)))
	metrics.GraphEdgeOverwrites.Add(float64(ex.overwrites))
	metrics.GraphNodeCount.Set(float64(ex.graph.NodeCount()))
	metrics.GraphEdgeCount.Set(float64(ex.graph.EdgeCount()))
	documentProcessedTotal.WithLabelValues("success").Inc()

	log.WithFields(logrus.Fields{
		"tokens_count":    len(doc.Tokens),
		"entities_count":  entities.Len(),
		"relations_count": triples,
		"dropped_count":   len(ex.dropped),
		"nodes_count":     ex.graph.NodeCount(),
		"edges_count":     ex.graph.EdgeCount(),
	}).Info("Document processing completed")

	return &Result{
		DocumentID: docID,
		Entities:   entities,
		Relations:  ex.relations,
		Graph:      ex.graph,
	}, nil
}
