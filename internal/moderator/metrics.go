package moderator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var commentsImportedCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "replydesk_comments_imported_total",
	Help: "Number of comments accepted into the store by imports",
})

var importFailuresCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "replydesk_import_failures_total",
	Help: "Number of import batches aborted by a feed failure",
})

var draftsDegradedCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "replydesk_drafts_degraded_total",
	Help: "Number of comments whose draft generation failed and degraded to pending",
})

var autoRepliesCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "replydesk_auto_replies_total",
	Help: "Number of replies delivered unattended by the auto-pilot",
})

var replyFailuresCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "replydesk_reply_failures_total",
	Help: "Number of failed reply deliveries, auto and manual",
})
