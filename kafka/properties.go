package kafka

import (
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/kafkasample/validation"
)

// Role is the kind of client a set of properties is meant for.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleProducer Role = "producer"
	RoleConsumer Role = "consumer"
)

type forbiddenRule struct {
	roles  []Role
	reason string
}

// forbidden lists keys the clients set themselves. Allowing an override
// would change delivery semantics.
var forbidden = map[string]forbiddenRule{
	"enable.auto.commit": {
		roles:  []Role{RoleConsumer},
		reason: "offsets are committed explicitly after each record is processed",
	},
	"enable.auto.offset.store": {
		roles:  []Role{RoleConsumer},
		reason: "the offset of a record is stored only when it is committed",
	},
	"auto.offset.reset": {
		roles:  []Role{RoleConsumer},
		reason: "a new consumer group always starts from the earliest offset",
	},
	"group.id": {
		roles:  []Role{RoleConsumer},
		reason: "set consumer.group_id instead",
	},
	"enable.idempotence": {
		roles:  []Role{RoleProducer},
		reason: "idempotent and exactly-once delivery are not supported",
	},
	"transactional.id": {
		roles:  []Role{RoleProducer, RoleConsumer},
		reason: "transactions are not supported",
	},
	"bootstrap.servers": {
		roles:  []Role{RoleAdmin, RoleProducer, RoleConsumer},
		reason: "set kafka.brokers instead",
	},
}

type knownProperty struct {
	roles []Role
	// parse checks the value. Nil accepts any string.
	parse func(string) (int, error)
}

func parseInt(s string) (int, error) { return strconv.Atoi(strings.TrimSpace(s)) }

// parseAcks accepts -1, 0, 1 and the librdkafka spelling "all".
func parseAcks(s string) (int, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return -1, nil
	}
	return parseInt(s)
}

var allRoles = []Role{RoleAdmin, RoleProducer, RoleConsumer}

// known lists the overridable keys the clients understand.
var known = map[string]knownProperty{
	"client.id":             {roles: allRoles},
	"request.timeout.ms":    {roles: allRoles, parse: parseInt},
	"acks":                  {roles: []Role{RoleProducer}, parse: parseAcks},
	"compression.type":      {roles: []Role{RoleProducer}},
	"message.timeout.ms":    {roles: []Role{RoleProducer}, parse: parseInt},
	"session.timeout.ms":    {roles: []Role{RoleConsumer}, parse: parseInt},
	"heartbeat.interval.ms": {roles: []Role{RoleConsumer}, parse: parseInt},
	"max.poll.interval.ms":  {roles: []Role{RoleConsumer}, parse: parseInt},
	"fetch.min.bytes":       {roles: []Role{RoleConsumer}, parse: parseInt},
	"fetch.max.bytes":       {roles: []Role{RoleConsumer}, parse: parseInt},
	"fetch.wait.max.ms":     {roles: []Role{RoleConsumer}, parse: parseInt},
}

// ValidateProperties checks user overrides for a client role. It has no side
// effects and returns every finding:
//   - forbidden keys for the role are SeverityError;
//   - known keys with a value the key does not accept (a non-number, or for
//     acks anything but a number or "all") are SeverityError;
//   - keys the role does not understand are SeverityWarning.
//
// Callers decide what to do; the commands refuse to start on any error and
// log warnings.
func ValidateProperties(props map[string]string, role Role) []validation.Violation {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	v := validation.New()
	for _, raw := range keys {
		key := strings.ToLower(strings.TrimSpace(raw))
		field := "kafka.properties." + raw

		if rule, ok := forbidden[key]; ok && slices.Contains(rule.roles, role) {
			v.AddError(field, "cannot be overridden: "+rule.reason)
			continue
		}
		prop, ok := known[key]
		if !ok || !slices.Contains(prop.roles, role) {
			v.AddWarning(field, "not used by the "+string(role)+" and will be ignored")
			continue
		}
		if prop.parse != nil {
			if _, err := prop.parse(props[raw]); err != nil {
				v.AddError(field, "must be an integer")
			}
		}
	}
	return v.Violations()
}

// PropertyInt reads an integer property.
func PropertyInt(props map[string]string, key string) (int, bool) {
	s, ok := props[key]
	if !ok {
		return 0, false
	}
	n, err := parseInt(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// PropertyAcks reads the acks property. "all" means -1.
func PropertyAcks(props map[string]string) (int, bool) {
	s, ok := props["acks"]
	if !ok {
		return 0, false
	}
	n, err := parseAcks(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// PropertyDuration reads a millisecond property as a duration.
func PropertyDuration(props map[string]string, key string) (time.Duration, bool) {
	n, ok := PropertyInt(props, key)
	if !ok || n < 0 {
		return 0, false
	}
	return time.Duration(n) * time.Millisecond, true
}
