package tracker

import "trackercode-go/bus"

// Opaque-topic helpers

func T(tokens ...bus.Token) bus.Topic { return bus.T(tokens...) }

func topicFix() bus.Topic    { return T("tracker", "fix") }
func topicLink() bus.Topic   { return T("tracker", "link") }
func topicUpload() bus.Topic { return T("tracker", "upload") }

// tracker/alert/<kind>
func topicAlert(kind string) bus.Topic { return T("tracker", "alert", kind) }
