package term

import (
	"bytes"
	"compress/zlib"
	"testing"
)

func TestParseKittyGraphicsControlData(t *testing.T) {
	tests := []struct {
		name string
		data string
		want func(t *testing.T, cmd *KittyCommand)
	}{
		{
			name: "transmit and display",
			data: "Ga=T,f=32,s=2,v=2;AAAAAAAAAAAAAAAAAAAAAAA=",
			want: func(t *testing.T, cmd *KittyCommand) {
				if cmd.Action != KittyActionTransmitDisplay {
					t.Errorf("Action = %c, want T", cmd.Action)
				}
				if cmd.Format != KittyFormatRGBA {
					t.Errorf("Format = %d, want %d", cmd.Format, KittyFormatRGBA)
				}
				if cmd.Width != 2 || cmd.Height != 2 {
					t.Errorf("dimensions = %dx%d, want 2x2", cmd.Width, cmd.Height)
				}
			},
		},
		{
			name: "query",
			data: "Ga=q,i=1;",
			want: func(t *testing.T, cmd *KittyCommand) {
				if cmd.Action != KittyActionQuery {
					t.Errorf("Action = %c, want q", cmd.Action)
				}
				if cmd.ImageID != 1 {
					t.Errorf("ImageID = %d, want 1", cmd.ImageID)
				}
			},
		},
		{
			name: "delete all",
			data: "Ga=d,d=a;",
			want: func(t *testing.T, cmd *KittyCommand) {
				if cmd.Action != KittyActionDelete {
					t.Errorf("Action = %c, want d", cmd.Action)
				}
				if cmd.Delete != KittyDeleteAll {
					t.Errorf("Delete = %c, want a", cmd.Delete)
				}
			},
		},
		{
			name: "chunked transmission",
			data: "Ga=T,m=1;AAAA",
			want: func(t *testing.T, cmd *KittyCommand) {
				if !cmd.More {
					t.Error("More = false, want true")
				}
				if !cmd.IsAnimationFrame() && cmd.Action != KittyActionTransmitDisplay {
					t.Error("sanity: action should still be a transmit action")
				}
			},
		},
		{
			name: "negative z-index",
			data: "Ga=p,i=1,z=-1;",
			want: func(t *testing.T, cmd *KittyCommand) {
				if cmd.ZIndex != -1 {
					t.Errorf("ZIndex = %d, want -1", cmd.ZIndex)
				}
			},
		},
		{
			name: "placement geometry",
			data: "Ga=p,i=1,c=10,r=5,X=2,Y=3;",
			want: func(t *testing.T, cmd *KittyCommand) {
				if cmd.Cols != 10 || cmd.Rows != 5 {
					t.Errorf("Cols/Rows = %d/%d, want 10/5", cmd.Cols, cmd.Rows)
				}
				if cmd.CellOffsetX != 2 || cmd.CellOffsetY != 3 {
					t.Errorf("CellOffsetX/Y = %d/%d, want 2/3", cmd.CellOffsetX, cmd.CellOffsetY)
				}
			},
		},
		{
			name: "suppressed cursor advance",
			data: "Ga=T,C=1;",
			want: func(t *testing.T, cmd *KittyCommand) {
				if !cmd.DoNotMoveCursor {
					t.Error("DoNotMoveCursor = false, want true")
				}
			},
		},
		{
			name: "unknown control keys are ignored, not fatal",
			data: "Ga=T,Q=99,zz=1;",
			want: func(t *testing.T, cmd *KittyCommand) {
				if cmd.Action != KittyActionTransmitDisplay {
					t.Errorf("Action = %c, want T", cmd.Action)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := ParseKittyGraphics([]byte(tt.data))
			if err != nil {
				t.Fatalf("ParseKittyGraphics: %v", err)
			}
			tt.want(t, cmd)
		})
	}
}

func TestParseKittyGraphicsMalformedBase64(t *testing.T) {
	if _, err := ParseKittyGraphics([]byte("Ga=T;not-valid-base64!!!")); err == nil {
		t.Error("expected an error decoding an invalid base64 payload")
	}
}

func TestKittyCommandDecodeImageDataRGBA(t *testing.T) {
	rgba := bytes.Repeat([]byte{255}, 16) // 2x2 RGBA

	cmd := &KittyCommand{Format: KittyFormatRGBA, Width: 2, Height: 2, Payload: rgba}

	data, w, h, err := cmd.DecodeImageData()
	if err != nil {
		t.Fatalf("DecodeImageData: %v", err)
	}
	if w != 2 || h != 2 {
		t.Errorf("dimensions = %dx%d, want 2x2", w, h)
	}
	if len(data) != 16 {
		t.Errorf("len(data) = %d, want 16", len(data))
	}
}

func TestKittyCommandDecodeImageDataRGBAInsufficientData(t *testing.T) {
	cmd := &KittyCommand{Format: KittyFormatRGBA, Width: 2, Height: 2, Payload: []byte{1, 2, 3}}

	if _, _, _, err := cmd.DecodeImageData(); err == nil {
		t.Error("expected an error for a payload shorter than width*height*4")
	}
}

func TestKittyCommandDecodeImageDataRGB(t *testing.T) {
	rgb := bytes.Repeat([]byte{128}, 12) // 2x2 RGB

	cmd := &KittyCommand{Format: KittyFormatRGB, Width: 2, Height: 2, Payload: rgb}

	data, w, h, err := cmd.DecodeImageData()
	if err != nil {
		t.Fatalf("DecodeImageData: %v", err)
	}
	if w != 2 || h != 2 {
		t.Errorf("dimensions = %dx%d, want 2x2", w, h)
	}
	if len(data) != 16 {
		t.Errorf("len(data) = %d, want 16", len(data))
	}
	if data[3] != 255 {
		t.Errorf("alpha = %d, want 255 (RGB has no alpha channel)", data[3])
	}
	if data[0] != 128 || data[1] != 128 || data[2] != 128 {
		t.Errorf("rgb = %d,%d,%d, want 128,128,128", data[0], data[1], data[2])
	}
}

func TestKittyCommandDecodeImageDataZlib(t *testing.T) {
	raw := bytes.Repeat([]byte{1, 2, 3, 4}, 4) // 2x2 RGBA, uncompressed

	var compressed bytes.Buffer
	w := zlib.NewWriter(&compressed)
	w.Write(raw)
	w.Close()

	cmd := &KittyCommand{Format: KittyFormatRGBA, Width: 2, Height: 2, Compression: 'z', Payload: compressed.Bytes()}

	data, w2, h2, err := cmd.DecodeImageData()
	if err != nil {
		t.Fatalf("DecodeImageData: %v", err)
	}
	if w2 != 2 || h2 != 2 {
		t.Errorf("dimensions = %dx%d, want 2x2", w2, h2)
	}
	if !bytes.Equal(data, raw) {
		t.Error("decompressed data does not match the original pixels")
	}
}

func TestKittyCommandDecodeImageDataUnsupportedFormat(t *testing.T) {
	cmd := &KittyCommand{Format: KittyFormat(999), Payload: []byte{1}}

	if _, _, _, err := cmd.DecodeImageData(); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestKittyCommandIsAnimationFrame(t *testing.T) {
	for _, tt := range []struct {
		action KittyAction
		want   bool
	}{
		{KittyActionFrame, true},
		{KittyActionAnimate, true},
		{KittyActionCompose, true},
		{KittyActionTransmit, false},
		{KittyActionDisplay, false},
	} {
		cmd := &KittyCommand{Action: tt.action}
		if got := cmd.IsAnimationFrame(); got != tt.want {
			t.Errorf("action %c: IsAnimationFrame() = %v, want %v", tt.action, got, tt.want)
		}
	}
}

func TestFormatKittyResponse(t *testing.T) {
	if got, want := FormatKittyResponse(42, "", false), "\x1b_Gi=42;OK\x1b\\"; got != want {
		t.Errorf("FormatKittyResponse(42, \"\", false) = %q, want %q", got, want)
	}
	if got, want := FormatKittyResponse(0, "ENOENT", true), "\x1b_G;ENOENT\x1b\\"; got != want {
		t.Errorf("FormatKittyResponse(0, \"ENOENT\", true) = %q, want %q", got, want)
	}
}

