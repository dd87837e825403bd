package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dosada05/school-tournament/brackets"
	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/services"
)

type planGroup struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	ModalityID int    `json:"modality_id"`
	Modality   string `json:"modality"`
	Teams      []struct {
		ID     int    `json:"id"`
		Name   string `json:"name"`
		Gender string `json:"gender"`
	} `json:"teams"`
}

// planInput is the file format of `schedulerctl plan`.
type planInput struct {
	Start       *time.Time        `json:"start,omitempty"`
	Venues      []models.Venue    `json:"venues"`
	VenueConfig map[string]string `json:"venue_config,omitempty"`
	Groups      []planGroup       `json:"groups"`
	ShuffleSeed *int64            `json:"shuffle_seed,omitempty"`
	Genders     map[string]string `json:"start_genders,omitempty"`

	teamNames   map[int]string
	groups      []models.Group
	startGender map[string]models.Gender
}

func parsePlanInput(r io.Reader) (*planInput, error) {
	var in planInput
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("failed to decode plan input: %w", err)
	}

	in.teamNames = make(map[int]string)
	seen := make(map[int]bool)
	for i, g := range in.Groups {
		if g.ID <= 0 {
			g.ID = i + 1
		}
		if strings.TrimSpace(g.Modality) == "" {
			return nil, fmt.Errorf("group %d has no modality", g.ID)
		}
		if g.ModalityID <= 0 {
			g.ModalityID = g.ID
		}
		group := models.Group{ID: g.ID, Name: g.Name, ModalityID: g.ModalityID, ModalityName: g.Modality}
		for _, t := range g.Teams {
			if t.ID <= 0 {
				return nil, fmt.Errorf("group %d: team ids must be positive", g.ID)
			}
			if seen[t.ID] {
				return nil, fmt.Errorf("team %d appears twice", t.ID)
			}
			seen[t.ID] = true
			gender, err := models.ParseGender(t.Gender)
			if err != nil {
				return nil, fmt.Errorf("team %d: %w", t.ID, err)
			}
			group.Teams = append(group.Teams, models.Team{ID: t.ID, Name: t.Name, Gender: gender, ModalityID: g.ModalityID})
			in.teamNames[t.ID] = t.Name
		}
		in.groups = append(in.groups, group)
	}

	if len(in.Genders) > 0 {
		in.startGender = brackets.DefaultStartGenders()
		for modality, raw := range in.Genders {
			gender, err := models.ParseGender(raw)
			if err != nil {
				return nil, fmt.Errorf("start gender of %s: %w", modality, err)
			}
			in.startGender[modality] = gender
		}
	}
	return &in, nil
}

func (in *planInput) team(id int) string {
	if name := in.teamNames[id]; name != "" {
		return name
	}
	return fmt.Sprintf("#%d", id)
}

func printSchedule(w io.Writer, in *planInput, schedule *brackets.Schedule) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tORDER\tTIME\tVENUE\tMODALITY\tGENDER\tMATCH")
	for _, p := range schedule.Placements {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%s vs %s\n",
			p.Slot+1, p.Order, p.ScheduledAt.Format("15:04"), p.Venue.Name, p.Modality, p.Gender,
			in.team(p.HomeID), in.team(p.AwayID))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nslots: %d  paired: %d  diverse: %d  diversity: %.2f\n",
		schedule.SlotCount, schedule.PairedSlots, schedule.DiverseSlots, schedule.DiversityRatio())
	for _, modality := range sortedKeys(schedule.Cycles) {
		c := schedule.Cycles[modality]
		fmt.Fprintf(w, "%s: male %d, female %d, cycles %d, breaks %d\n",
			modality, c.Male, c.Female, c.CompletedCycles, c.AlternationBreaks)
	}
	for _, warning := range schedule.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	return nil
}

func newPlanCmd() *cobra.Command {
	var (
		input     string
		blockSize int
		slot      time.Duration
		maxSlots  int
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Dry-run the group-stage schedule from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("failed to open input: %w", err)
			}
			defer f.Close()

			in, err := parsePlanInput(f)
			if err != nil {
				return err
			}

			start := time.Now().Truncate(time.Minute)
			if in.Start != nil {
				start = *in.Start
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
			settings := services.Settings{
				BlockSize:    blockSize,
				MaxSlots:     maxSlots,
				SlotDuration: slot,
				StartGenders: in.startGender,
				Now:          func() time.Time { return start },
			}

			schedule, err := services.PlanGroupStage(in.groups, in.Venues, in.VenueConfig, settings, in.ShuffleSeed, logger)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(schedule)
			}
			return printSchedule(cmd.OutOrStdout(), in, schedule)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "JSON file with venues and groups")
	cmd.Flags().IntVar(&blockSize, "block-size", brackets.DefaultBlockSize, "matches per gender block")
	cmd.Flags().DurationVar(&slot, "slot", brackets.DefaultSlotDuration, "duration of one slot")
	cmd.Flags().IntVar(&maxSlots, "max-slots", brackets.DefaultMaxSlots, "optimizer slot ceiling")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw schedule as JSON")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func init() {
	rootCmd.AddCommand(newPlanCmd())
}
