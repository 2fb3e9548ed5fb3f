package log

import "log/slog"

func DocumentID(id string) slog.Attr {
	return slog.String("document_id", id)
}

func LoanID(id string) slog.Attr {
	return slog.String("loan_id", id)
}

func AssetHash(hash string) slog.Attr {
	return slog.String("asset_hash", hash)
}

func AcidNumber(acid string) slog.Attr {
	return slog.String("acid_number", acid)
}

func Status[T ~string](status T) slog.Attr {
	return slog.String("status", string(status))
}

func Caller[T interface{ String() string }](id T) slog.Attr {
	return slog.String("caller", id.String())
}

func Amount(amount uint64) slog.Attr {
	return slog.Uint64("amount", amount)
}

func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}
