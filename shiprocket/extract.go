package shiprocket

import (
	"strconv"
)

// Shiprocket nests courier-assignment fields differently depending on the
// courier and API mood: top level, under response.data, under data, or under
// response. Each location is a strategy; the first one that yields a value
// wins.
var fieldPaths = [][]string{
	{},
	{"response", "data"},
	{"data"},
	{"response"},
}

// extractField probes the known nesting shapes for a field, in priority
// order, returning the first non-empty value.
func extractField(doc map[string]any, field string) string {
	for _, path := range fieldPaths {
		node := doc
		ok := true
		for _, key := range path {
			next, found := node[key].(map[string]any)
			if !found {
				ok = false
				break
			}
			node = next
		}
		if !ok {
			continue
		}
		if value := asString(node[field]); value != "" {
			return value
		}
	}
	return ""
}

// AWBFromOrderDoc reads the AWB off an orders/show document's first shipment.
// Empty when the courier has not assigned one yet.
func AWBFromOrderDoc(doc map[string]any) string {
	shipment, ok := firstShipment(doc)
	if !ok {
		return ""
	}
	return shipmentAWB(shipment)
}

// firstShipment returns the first entry of data.shipments from an orders/show
// document, which is where a late-assigned AWB turns up.
func firstShipment(doc map[string]any) (map[string]any, bool) {
	data, ok := doc["data"].(map[string]any)
	if !ok {
		return nil, false
	}
	shipments, ok := data["shipments"].([]any)
	if !ok || len(shipments) == 0 {
		return nil, false
	}
	first, ok := shipments[0].(map[string]any)
	return first, ok
}

// shipmentAWB reads the AWB out of a shipment entry, which uses either
// "awb_code" or "awb" depending on the endpoint.
func shipmentAWB(shipment map[string]any) string {
	if awb := asString(shipment["awb_code"]); awb != "" {
		return awb
	}
	return asString(shipment["awb"])
}

// asString renders a loosely typed JSON scalar as a string. Shiprocket ids
// arrive as numbers on some endpoints and strings on others.
func asString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return ""
	}
}
