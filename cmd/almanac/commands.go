package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/almanac-api/internal/almanac"
	"github.com/zapponejosh/almanac-api/internal/calendar"
	"github.com/zapponejosh/almanac-api/internal/flyingstar"
)

// parseArg parses a date argument, then applies --time when given.
func parseArg(arg, clock string) (calendar.Instant, error) {
	in, err := calendar.ParseInstant(arg)
	if err != nil {
		return calendar.Instant{}, err
	}
	return in.WithClock(clock)
}

// instantCmd builds a command taking one date argument and an optional --time.
func instantCmd(use, short string, query func(*almanac.Service, calendar.Instant) (any, error)) *cobra.Command {
	var clock string

	cmd := &cobra.Command{
		Use:   use + " YYYY-MM-DD[THH:MM]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := parseArg(args[0], clock)
			if err != nil {
				return err
			}
			return withService(cmd.Context(), func(svc *almanac.Service) (any, error) {
				return query(svc, in)
			}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&clock, "time", "t", "", "clock time HH:MM")
	return cmd
}

func dayCmd() *cobra.Command {
	return instantCmd("day", "Full report for a date", func(svc *almanac.Service, in calendar.Instant) (any, error) {
		return svc.Day(in)
	})
}

func lunarCmd() *cobra.Command {
	return instantCmd("lunar", "Lunisolar date", func(svc *almanac.Service, in calendar.Instant) (any, error) {
		return svc.Lunar(in)
	})
}

func pillarsCmd() *cobra.Command {
	return instantCmd("pillars", "Four sexagenary pillars", func(svc *almanac.Service, in calendar.Instant) (any, error) {
		return svc.Pillars(in)
	})
}

func starsCmd() *cobra.Command {
	var clock string

	cmd := &cobra.Command{
		Use:   "stars {year|month|day|hour} YYYY-MM-DD[THH:MM]",
		Short: "Flying-star grid of one scale",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scale, err := flyingstar.ParseScale(args[0])
			if err != nil {
				return err
			}
			in, err := parseArg(args[1], clock)
			if err != nil {
				return err
			}
			return withService(cmd.Context(), func(svc *almanac.Service) (any, error) {
				return svc.FlyingStars(scale, in)
			}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&clock, "time", "t", "", "clock time HH:MM")
	return cmd
}

func officerCmd() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "officer YYYY-MM-DD",
		Short: "Day officer, or officers up to --to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := calendar.ParseInstant(args[0])
			if err != nil {
				return err
			}
			if to == "" {
				return withService(cmd.Context(), func(svc *almanac.Service) (any, error) {
					return svc.Officer(start)
				}, cmd.OutOrStdout())
			}

			end, err := calendar.ParseInstant(to)
			if err != nil {
				return err
			}
			return withService(cmd.Context(), func(svc *almanac.Service) (any, error) {
				return svc.Officers(start, end)
			}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "last date of a range (at most 90 days)")
	return cmd
}

func ziweiCmd() *cobra.Command {
	var (
		hour     int
		evalYear int
	)

	cmd := &cobra.Command{
		Use:   "ziwei YYYY-MM-DD",
		Short: "Zi Wei natal chart for a birth date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			birth, err := calendar.ParseInstant(args[0])
			if err != nil {
				return err
			}
			year := evalYear
			if year == 0 {
				year = birth.Year
			}
			return withService(cmd.Context(), func(svc *almanac.Service) (any, error) {
				return svc.ZiWei(birth, hour, year)
			}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&hour, "hour", 0, "birth hour 0-23")
	cmd.Flags().IntVar(&evalYear, "year", 0, "year the chart is read for (default: birth year)")
	return cmd
}

func solarCmd() *cobra.Command {
	var leap bool

	cmd := &cobra.Command{
		Use:   "solar YEAR MONTH DAY",
		Short: "Gregorian date of a lunar date",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var nums [3]int
			for i, a := range args {
				n, err := strconv.Atoi(a)
				if err != nil {
					return err
				}
				nums[i] = n
			}
			d := calendar.LunarDate{Year: nums[0], Month: nums[1], Day: nums[2], IsLeapMonth: leap}
			return withService(cmd.Context(), func(svc *almanac.Service) (any, error) {
				return svc.Solar(d)
			}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&leap, "leap", false, "the month is a leap month")
	return cmd
}

func termsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "terms YEAR",
		Short: "The 24 solar terms of a year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			return withService(cmd.Context(), func(svc *almanac.Service) (any, error) {
				return svc.SolarTerms(year)
			}, cmd.OutOrStdout())
		},
	}
}
