package logger

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// Gruvbox Dark palette (warm, muted, easy on eyes)
var palette = struct {
	fg       string
	aqua     string
	orange   string
	yellow   string
	green    string
	blue     string
	purple   string
	red      string
	redBg    string
	yellowBg string
}{
	fg:       "\x1b[38;5;223m",
	aqua:     "\x1b[38;5;108m",
	orange:   "\x1b[38;5;208m",
	yellow:   "\x1b[38;5;214m",
	green:    "\x1b[38;5;142m",
	blue:     "\x1b[38;5;109m",
	purple:   "\x1b[38;5;175m",
	red:      "\x1b[38;5;167m",
	redBg:    "\x1b[48;5;88m",
	yellowBg: "\x1b[48;5;58m",
}

var bracketPattern = regexp.MustCompile(`\[([^\]]+)\]`)

var encoderPool = buffer.NewPool()

func colorComponent(name string) string {
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	if hash%2 == 0 {
		return palette.orange
	}
	return palette.yellow
}

// colorizeMessage highlights bracketed attribute names ([Obsolete], [Conditional])
// and leaves the rest in the base colour.
func colorizeMessage(msg string) string {
	var result strings.Builder
	lastIndex := 0

	for _, match := range bracketPattern.FindAllStringIndex(msg, -1) {
		if before := msg[lastIndex:match[0]]; before != "" {
			result.WriteString(palette.fg)
			result.WriteString(before)
			result.WriteString(colorReset)
		}
		result.WriteString(palette.aqua)
		result.WriteString(msg[match[0]:match[1]])
		result.WriteString(colorReset)
		lastIndex = match[1]
	}

	if remaining := msg[lastIndex:]; remaining != "" {
		result.WriteString(palette.fg)
		result.WriteString(remaining)
		result.WriteString(colorReset)
	}

	return result.String()
}

// minimalEncoder implements a calm, compact console encoder
// Format: "13:04:35  b.resolver  bound attribute  [Obsolete] 2 args"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{Encoder: enc.Encoder.Clone()}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := encoderPool.Get()

	final.AppendString(palette.aqua)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only show for non-info with bold + background
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorComponent(ent.LoggerName))
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(colorizeMessage(ent.Message))

	if values := extractFieldValues(fields); values != "" {
		final.AppendString("  ")
		final.AppendString(values)
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for non-info levels
func levelColorString(level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return palette.purple + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + palette.yellowBg + palette.yellow + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + palette.redBg + palette.red + "ERROR" + colorReset
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return colorBold + palette.redBg + palette.red + level.CapitalString() + colorReset
	default:
		return ""
	}
}

// abbreviateName shortens component names: binder.resolver -> b.resolver
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// getFieldValue extracts the value from a zap field, handling different field types
func getFieldValue(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.BoolType:
		if field.Integer == 1 {
			return "true"
		}
		return "false"
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok {
			return err.Error()
		}
	}

	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}
	return ""
}

// extractFieldValues pulls just the values from the fields worth showing on a console line
// Input: {"attribute": "Obsolete", "count": 2, "has_errors": true}
// Output: "[Obsolete] 2 args errors"
func extractFieldValues(fields []zapcore.Field) string {
	var values []string

	for _, field := range fields {
		val := getFieldValue(field)
		if val == "" {
			continue
		}
		switch field.Key {
		case FieldAttribute, FieldClass:
			values = append(values, palette.aqua+"["+val+"]"+colorReset)
		case FieldConstructor, FieldFile:
			values = append(values, palette.blue+val+colorReset)
		case FieldCount:
			values = append(values, palette.purple+val+colorReset+" args")
		case FieldDurationMS:
			values = append(values, palette.purple+val+colorReset+"ms")
		case FieldSession:
			values = append(values, palette.blue+shortSession(val)+colorReset)
		case FieldHasErrors:
			if val == "true" {
				values = append(values, palette.red+"errors"+colorReset)
			}
		case FieldOmitted:
			if val == "true" {
				values = append(values, palette.yellow+"omitted"+colorReset)
			}
		case FieldError:
			values = append(values, palette.red+val+colorReset)
		}
	}

	return strings.Join(values, " ")
}

func shortSession(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
