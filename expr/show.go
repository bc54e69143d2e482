package expr

import (
	"context"
	"log/slog"
	"strings"
)

func ExprString(expr Expr) string {
	switch expr := expr.(type) {
	case nil:
		return "nil"
	case *Literal:
		if expr.Value == nil {
			return "nil"
		}
		return expr.Value.String()
	case *Var:
		return expr.Name
	case *Source:
		return expr.Text
	case *Call:
		atPre := ""
		if expr.AtPre {
			atPre = AtPre
		}
		if expr.Printer == nil {
			return "<unresolved call>(" + Join(expr.Args, ", ") + ")"
		}
		return expr.Printer.Render(expr.Args, atPre)
	}
	return "<unknown expression>"
}

// Join renders exprs separated by sep
func Join(exprs []Expr, sep string) string {
	sb := strings.Builder{}
	for i, e := range exprs {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(ExprString(e))
	}
	return sb.String()
}

// Slog wraps an Expr as a slog.LogValuer to not render expression strings
// unless they definitely need to be logged
func Slog(expr Expr) slog.LogValuer {
	return exprLogValuer{expr}
}

type exprLogValuer struct{ Expr }

func (l exprLogValuer) LogValue() slog.Value {
	return slog.StringValue(ExprString(l.Expr))
}

// ExprLogger returns a logger which lazily renders any Expr attribute
func ExprLogger(underlying *slog.Logger) *slog.Logger {
	return slog.New(&exprLogHandler{underlying: underlying.Handler()})
}

type exprLogHandler struct {
	underlying slog.Handler
}

func wrapAttr(attr slog.Attr) slog.Attr {
	if attr.Value.Kind() == slog.KindAny {
		if asExpr, isExpr := attr.Value.Any().(Expr); isExpr {
			return slog.Any(attr.Key, Slog(asExpr))
		}
	}
	return attr
}

func (l *exprLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return l.underlying.Enabled(ctx, level)
}

func (l *exprLogHandler) Handle(ctx context.Context, record slog.Record) error {
	newRecord := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		newRecord.AddAttrs(wrapAttr(attr))
		return true
	})
	return l.underlying.Handle(ctx, newRecord)
}

func (l *exprLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	wrapped := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		wrapped[i] = wrapAttr(attr)
	}
	return &exprLogHandler{underlying: l.underlying.WithAttrs(wrapped)}
}

func (l *exprLogHandler) WithGroup(name string) slog.Handler {
	return &exprLogHandler{underlying: l.underlying.WithGroup(name)}
}
